// Package home serves the API's landing route.
package home

import (
	"net/http"

	"github.com/anuj-patel/student-records/internal/utils/response"
)

// Greet handles GET / with a static greeting so a newcomer (or a load
// balancer) can confirm the service is up with a single curl.
func Greet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, map[string]string{
			"message": "Welcome to the Student Records API",
		})
	}
}
