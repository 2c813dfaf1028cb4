// Package database manages the GORM connection used by the country catalog.
//
// MySQL is the production driver; sqlite is supported for local development
// and tests. Connection pool limits and I/O timeouts are applied to the MySQL
// connection so a slow or unreachable server cannot hang the service.
package database
