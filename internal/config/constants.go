package config

const (
	// Configuration file paths
	ConfigPathCatalog       = "configs/catalog.json"
	ConfigPathCatalogSchema = "configs/schemas/catalog.schema.json"
)
