/*
Package dihttp provides HTTP middleware that creates a [di.Container] scope for each request.

Example:

	package main

	import (
		"net/http"

		"github.com/go-chi/chi/v5"
		"github.com/sectrean/di-chain"
		"github.com/sectrean/di-chain/dicontext"
		"github.com/sectrean/di-chain/dihttp"
	)

	func main() {
		c, err := di.NewContainer(
			di.WithService(NewService),
			di.WithService(NewRequestService, di.WithLifetime(di.Scoped)),
		)
		if err != nil {
			panic(err)
		}

		scopeMiddleware, err := dihttp.NewRequestScopeMiddleware(c)
		if err != nil {
			panic(err)
		}

		r := chi.NewRouter()
		r.Use(scopeMiddleware)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			svc := dicontext.MustResolve[*RequestService](r.Context())
			svc.HandleRequest(w, r)
		})

		http.ListenAndServe(":8080", r)
	}
*/
package dihttp
