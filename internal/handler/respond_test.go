package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"go-inventory-sku/internal/apperr"
)

func TestFailStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &apperr.ValidationError{Fields: []string{"name: required"}}, 400},
		{"not found", &apperr.NotFoundError{Kind: "sku", ID: "x"}, 404},
		{"duplicate code", &apperr.DuplicateCodeError{Kind: "sku", Code: "TSHIRT-001"}, 409},
		{"invalid state", &apperr.InvalidStateError{Op: "soft delete sku", Reason: "borrowed"}, 409},
		{"invalid transition", &apperr.InvalidTransitionError{From: "not_used", To: "ready"}, 409},
		{"conflict", &apperr.ConflictError{Reason: "code taken"}, 409},
		{"unknown", fiber.ErrTeapot, 500},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/boom", func(c *fiber.Ctx) error {
				return fail(c, tc.err)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
			if err != nil {
				t.Fatalf("test request: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tc.want {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tc.want)
			}
		})
	}
}
