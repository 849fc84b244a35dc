// Package routerhandlers provides http.Handler wrappers for serving a
// router.Registry: panic recovery, request ids, execution timeouts and
// access logging. Recovery and timeout replies carry a router.ErrorResponse
// JSON body.
//
// The router itself has no middleware chain; wrap the registry before
// handing it to the server:
//
//	reg := router.NewRegistry()
//	// ... register routes ...
//
//	timeout, err := routerhandlers.TimeoutMiddleware(routerhandlers.TimeoutConfig{
//	    Duration: 10 * time.Second,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	var h http.Handler = reg
//	h = timeout(h)
//	h = routerhandlers.RecoveryMiddleware(routerhandlers.RecoveryConfig{})(h)
//	h = routerhandlers.RequestIDMiddleware(routerhandlers.RequestIDConfig{})(h)
//	http.ListenAndServe(":8080", h)
package routerhandlers

import "net/http"

// Middleware wraps an http.Handler with additional behaviour.
type Middleware func(http.Handler) http.Handler
