// Package environment names the deployment environment and carries it
// through request contexts.
//
//	env := environment.Parse(os.Getenv("APP_ENV"))
//	r.Use(environment.Middleware(env))
//
// Handlers and loggers read it back with FromContext or LoggerExtractor.
package environment
