// Package environment propagates the application environment (development,
// staging, production) through context.Context.
//
// Parse turns a configuration string into an Environment, Middleware attaches
// it to every request context, and FromContext, IsProduction and
// IsDevelopment read it back:
//
//	r.Use(environment.Middleware(environment.Parse(cfg.Env)))
//
//	if environment.IsProduction(ctx) {
//	    // hide internal error details
//	}
//
// Missing values result in the zero value ("").
package environment
