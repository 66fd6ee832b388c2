package storetest

import (
	"flag"
	"fmt"
	"os"

	"github.com/go-sql-driver/mysql"

	"github.com/clear-ness/view-counter/model"
)

const (
	defaultMysqlDSN = "root@tcp(localhost:3306)/view_counter_test?charset=utf8mb4,utf8&readTimeout=30s&writeTimeout=30s"
)

func getEnv(name, defaultValue string) string {
	if value := os.Getenv(name); value != "" {
		return value
	} else {
		return defaultValue
	}
}

func log(message string) {
	verbose := false
	if verboseFlag := flag.Lookup("test.v"); verboseFlag != nil {
		verbose = verboseFlag.Value.String() != ""
	}
	if verboseFlag := flag.Lookup("v"); verboseFlag != nil {
		verbose = verboseFlag.Value.String() != ""
	}

	if verbose {
		fmt.Println(message)
	}
}

func databaseSettings(driver, dataSource string) *model.SqlSettings {
	settings := &model.SqlSettings{
		DriverName:                  &driver,
		DataSource:                  &dataSource,
		DataSourceReplicas:          []string{},
		MaxIdleConns:                new(int),
		ConnMaxLifetimeMilliseconds: new(int),
		MaxOpenConns:                new(int),
		Trace:                       model.NewBool(false),
		QueryTimeout:                new(int),
	}
	*settings.MaxIdleConns = 10
	*settings.ConnMaxLifetimeMilliseconds = 3600000
	*settings.MaxOpenConns = 100
	*settings.QueryTimeout = 60

	return settings
}

func MySQLSettings() *model.SqlSettings {
	dsn := getEnv("TEST_DATABASE_MYSQL_DSN", defaultMysqlDSN)
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		panic("failed to parse dsn " + dsn + ": " + err.Error())
	}

	return databaseSettings(model.DATABASE_DRIVER_MYSQL, cfg.FormatDSN())
}

// SQLiteSettings returns settings for a private in-memory database.
func SQLiteSettings() *model.SqlSettings {
	return databaseSettings(model.DATABASE_DRIVER_SQLITE, model.SQLITE_SETTINGS_MEMORY_DATASOURCE)
}

// MakeSqlSettings picks the test database from TEST_DATABASE_DRIVER,
// defaulting to an in-memory sqlite database.
func MakeSqlSettings() *model.SqlSettings {
	driver := getEnv("TEST_DATABASE_DRIVER", model.DATABASE_DRIVER_SQLITE)

	if driver == model.DATABASE_DRIVER_MYSQL {
		log("Using MySQL test database")
		return MySQLSettings()
	}

	log("Using in-memory SQLite test database")
	return SQLiteSettings()
}
