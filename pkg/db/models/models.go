package models

// All lists every persisted model in dependency order, for AutoMigrate in
// tests and sqlite dev databases.
func All() []any {
	return []any{
		&Collection{},
		&Promotion{},
		&Product{},
		&Customer{},
		&Order{},
		&OrderItem{},
		&Staff{},
		&LogEntry{},
	}
}
