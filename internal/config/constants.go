package config

// DefaultDatabasePath is where the sqlite database lives unless
// DATABASE_PATH says otherwise.
const DefaultDatabasePath = "./bookhive.db"
