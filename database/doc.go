// Package database manages the connection pool shared by the repositories:
// URL parsing per engine, connect/acquire/disconnect, caller-owned
// transactions, error classification, query hooks, logging, health checks and
// a create-table bootstrap for registered models. All of it is built on Bun.
package database
