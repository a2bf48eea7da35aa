// Package postgres holds the connection plumbing the database sink
// uses to reach a PostgreSQL server through GORM.
package postgres
