package fcm

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// Client wraps the Firebase Cloud Messaging client
type Client struct {
	client *messaging.Client
}

// NotificationData carries the payload for a push notification
type NotificationData struct {
	Title string
	Body  string
	Data  map[string]string
}

// NewClient creates an FCM client from a service account credentials file
func NewClient(ctx context.Context, credentialsPath string) (*Client, error) {
	opt := option.WithCredentialsFile(credentialsPath)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	return &Client{client: client}, nil
}

// SendToTopic sends a notification to all subscribers of a topic
func (c *Client) SendToTopic(ctx context.Context, topic string, data NotificationData) error {
	message := &messaging.Message{
		Topic: topic,
		Notification: &messaging.Notification{
			Title: data.Title,
			Body:  data.Body,
		},
		Data: data.Data,
	}

	response, err := c.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send FCM message: %w", err)
	}

	log.Printf("[FCM] Sent message to topic %s: %s", topic, response)
	return nil
}
