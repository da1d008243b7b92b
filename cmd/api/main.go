package main

// @title Campus Sublets API
// @version 1.0
// @description Short-term student sublease marketplace: listings, map browsing, geocoding, messages and profiles.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.
func main() {
	cfg := LoadConfiguration()

	app := NewApp(cfg)
	defer app.cleanup()

	app.InitializeServer()
	app.StartServer()
}
