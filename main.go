package main

import (
	"flag"

	"warbler/crud"
	"warbler/http"
)

// main is the app's entry point.
func main() {
	// The "-prod" flag means we're running in production. In that case a
	// .config.json file is required and the app panics if none is found.
	productionBool := flag.Bool("prod", false, "Provide this flag in production to ensure that a .config.json file is provided before the application starts.")
	flag.Parse()

	config := LoadConfig(*productionBool)

	// Open a database connection and execute migrations.
	db := NewDB(config.Database.ConnectionInfo())
	err := Open(db, config.IsProd())
	must(err)
	defer Close(db)
	err = AutoMigrate(db)
	must(err)

	// Start the crud services.
	services, err := crud.NewServices(
		db.Gorm,
		crud.WithUser(config.Pepper, config.HMACKey),
		crud.WithMessage(),
		crud.WithFollow(),
		crud.WithLike(),
	)
	must(err)

	// Set up a webserver and serve the app.
	server := http.NewServer(config.IsProd(), config.CSRFKey, services)
	server.Run(config.Port)
}

// must is a little helper for shortening the panic instruction.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
