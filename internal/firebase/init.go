package firebase

import (
	"context"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// InitFirebase initializes and returns the Firebase app used for author
// authentication.
func InitFirebase() (*firebase.App, error) {
	ctx := context.Background()

	serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
	projectID := os.Getenv("FIREBASE_PROJECT_ID")

	config := &firebase.Config{ProjectID: projectID}

	var app *firebase.App
	var err error
	if serviceAccountPath != "" {
		app, err = firebase.NewApp(ctx, config, option.WithCredentialsFile(serviceAccountPath))
	} else {
		// Default credentials, for deployments on Google Cloud
		app, err = firebase.NewApp(ctx, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	if _, err := app.Auth(ctx); err != nil {
		return nil, fmt.Errorf("failed to get Firebase Auth client: %w", err)
	}

	return app, nil
}

// GetAuthClient returns a Firebase Auth client from the app
func GetAuthClient(app *firebase.App) (*auth.Client, error) {
	return app.Auth(context.Background())
}
