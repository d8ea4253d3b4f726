// Package userstore is the entry point of the user store: a UserService that
// pairs the user repository with transaction handling and paging totals.
//
// Typical use:
//
//	cfg, err := config.Load("")
//	pool := database.NewPool(&cfg.Database, nil)
//	if err := pool.Connect(ctx); err != nil { ... }
//	defer pool.Disconnect()
//	users := userstore.NewUserService(pool)
//	page, err := users.Page(ctx, model.NewPageRequest(1, 20).WithEnable(1))
package userstore
