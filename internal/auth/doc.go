// Package auth connects the permission engine to the database and the webserver.
//
// Service is the GORM backed permission store: it reads role grants and user
// overrides for the resolver and performs the transactional replacements behind
// the administration endpoints.
//
// LocalProvider authenticates users against Argon2id password hashes stored in
// the users table.
//
// Middleware protects fiber routes. Every protected route names the resource and
// action it needs:
//
//	guard := auth.NewMiddleware(gate, cfg.Auth.CookieName)
//
//	app.Post("/api/pengajuan",
//	    guard.RequirePermission(auth.ResourceIzin, permission.ActionCreate),
//	    handler,
//	)
//
// The middleware answers 401 for missing or invalid credentials and 403 for
// valid credentials lacking the permission; the verified identity is stored in
// the request locals for the handler.
package auth
