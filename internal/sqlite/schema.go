package sqlite

// Collections of the document store. Node and value records are JSON
// documents; columns are plain rows so the name can carry a UNIQUE
// constraint and the id can auto-increment.
const (
	createNodes = `CREATE TABLE IF NOT EXISTS nodes (
    id TEXT PRIMARY KEY,
    doc TEXT NOT NULL
);`

	createColumns = `CREATE TABLE IF NOT EXISTS columns (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    type_name TEXT NOT NULL
);`

	createNodeValues = `CREATE TABLE IF NOT EXISTS node_values (
    id TEXT PRIMARY KEY,
    doc TEXT NOT NULL DEFAULT '{}'
);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createNodes,
	createColumns,
	createNodeValues,
}
