package configstore

// CatalogEntry describes one configurable key: how it is shown to users,
// under which key it is stored, and which category it belongs to.
type CatalogEntry struct {
	Display  string   `toml:"display"`
	Key      string   `toml:"key"`
	Category Category `toml:"category"`
}

// Catalog is the declarative list of keys the bot lets owners configure.
// It only drives command choices and display names; Store accepts any key.
type Catalog []CatalogEntry

// DefaultCatalog returns the keys offered when no catalog is configured.
func DefaultCatalog() Catalog {
	return Catalog{
		{Display: "Account Ping Role", Key: "account_ping_role", Category: CategoryRoles},
		{Display: "Seller Role", Key: "seller_role", Category: CategoryRoles},
		{Display: "Listing Category", Key: "listing_category", Category: CategoryCategories},
		{Display: "Logs Channel", Key: "logs_channel", Category: CategoryChannels},
		{Display: "Example Value", Key: "example_value", Category: CategoryValues},
	}
}

// In returns the entries of the given category, in catalog order.
func (c Catalog) In(category Category) Catalog {
	var entries Catalog
	for _, e := range c {
		if e.Category == category {
			entries = append(entries, e)
		}
	}
	return entries
}

// DisplayName returns the display name of key, or key itself when it is not cataloged.
func (c Catalog) DisplayName(key string) string {
	for _, e := range c {
		if e.Key == key {
			return e.Display
		}
	}
	return key
}
