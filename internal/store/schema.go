package store

// Collection names.
const (
	Pages    = "pages"
	Articles = "articles"
	Assets   = "assets"
	Metadata = "metadata"
)

// Index names.
const (
	IndexDate       = "date"
	IndexCategories = "categories"
	IndexType       = "type"
)

// IndexSchema declares a secondary index over one record field. Index values
// need not be unique. A multi-entry index on a list field indexes every
// element of the list separately.
type IndexSchema struct {
	Name       string
	KeyPath    string
	MultiEntry bool
}

// CollectionSchema declares a collection, its primary key field and its
// indexes.
type CollectionSchema struct {
	Name    string
	KeyPath string
	Indexes []IndexSchema
}

// Index returns the index called name.
func (c CollectionSchema) Index(name string) (IndexSchema, bool) {
	for _, ix := range c.Indexes {
		if ix.Name == name {
			return ix, true
		}
	}
	return IndexSchema{}, false
}

var (
	pagesSchema = CollectionSchema{Name: Pages, KeyPath: "url"}

	articlesSchema = CollectionSchema{
		Name:    Articles,
		KeyPath: "slug",
		Indexes: []IndexSchema{{Name: IndexDate, KeyPath: "date"}},
	}

	metadataSchema = CollectionSchema{Name: Metadata, KeyPath: "key"}

	assetsSchema = CollectionSchema{
		Name:    Assets,
		KeyPath: "url",
		Indexes: []IndexSchema{{Name: IndexType, KeyPath: "type"}},
	}

	categoriesIndex = IndexSchema{Name: IndexCategories, KeyPath: "categories", MultiEntry: true}
)

const baseSchema = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version    INTEGER PRIMARY KEY,
	name       TEXT NOT NULL,
	applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS collections (
	name     TEXT PRIMARY KEY,
	key_path TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS collection_indexes (
	collection  TEXT NOT NULL,
	name        TEXT NOT NULL,
	key_path    TEXT NOT NULL,
	multi_entry INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (collection, name)
);

CREATE TABLE IF NOT EXISTS records (
	collection TEXT NOT NULL,
	key        TEXT NOT NULL,
	value      TEXT NOT NULL,
	PRIMARY KEY (collection, key)
);

CREATE TABLE IF NOT EXISTS record_index (
	collection TEXT NOT NULL,
	index_name TEXT NOT NULL,
	value      TEXT NOT NULL,
	key        TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_record_index_lookup ON record_index(collection, index_name, value);
CREATE INDEX IF NOT EXISTS idx_record_index_key    ON record_index(collection, key);
`
