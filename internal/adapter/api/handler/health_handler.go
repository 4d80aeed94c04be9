package handler

import (
	"net/http"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"google.golang.org/api/iterator"
)

type HealthHandler struct {
	firestoreClient *firestore.Client
}

func NewHealthHandler(firestoreClient *firestore.Client) *HealthHandler {
	return &HealthHandler{
		firestoreClient: firestoreClient,
	}
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "Server is running",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// CheckDatastoreHealth issues a one-document read to verify the Firestore
// connection end to end.
func (h *HealthHandler) CheckDatastoreHealth(c echo.Context) error {
	iter := h.firestoreClient.Collection("users").Limit(1).Documents(c.Request().Context())
	defer iter.Stop()

	if _, err := iter.Next(); err != nil && err != iterator.Done {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "Datastore connection failed",
			"error":  err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "Datastore connected",
	})
}
