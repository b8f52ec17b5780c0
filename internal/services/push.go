package services

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// DeviceTokenKey is where the registered FCM device token is stored.
const DeviceTokenKey = "fcm_device_token"

var (
	ErrPushDisabled  = errors.New("push notifications disabled")
	ErrNoDeviceToken = errors.New("no device token registered")
)

// Notifier delivers a platform notification. Errors mean the notification was
// not shown; callers fall back to a toast.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// TokenStore persists the device token push notifications go to.
type TokenStore interface {
	Get(key string) (string, bool, error)
	Put(key, value string) error
}

// PushService sends notifications via Firebase Cloud Messaging.
type PushService struct {
	client *messaging.Client
	tokens TokenStore
	log    *zap.SugaredLogger
}

// NewPushService initializes Firebase messaging. It never fails: without a
// service account, or when Firebase cannot be set up, the service is disabled
// and Notify returns ErrPushDisabled.
func NewPushService(ctx context.Context, serviceAccountPath string, tokens TokenStore, log *zap.SugaredLogger) *PushService {
	p := &PushService{tokens: tokens, log: log}

	if serviceAccountPath == "" {
		log.Infow("FCM: no service account configured, push notifications disabled")
		return p
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(serviceAccountPath))
	if err != nil {
		log.Warnw("FCM: failed to initialize Firebase app", "error", err)
		return p
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		log.Warnw("FCM: failed to get messaging client", "error", err)
		return p
	}

	p.client = client
	log.Infow("FCM: push notifications enabled")
	return p
}

func (p *PushService) Enabled() bool {
	return p.client != nil
}

// SetDeviceToken records the token of the device that receives reminders.
func (p *PushService) SetDeviceToken(token string) error {
	if err := p.tokens.Put(DeviceTokenKey, token); err != nil {
		return fmt.Errorf("save device token: %w", err)
	}
	return nil
}

// SeedDeviceToken stores token unless one is already registered.
func (p *PushService) SeedDeviceToken(token string) error {
	if token == "" {
		return nil
	}
	_, ok, err := p.tokens.Get(DeviceTokenKey)
	if err != nil {
		return fmt.Errorf("read device token: %w", err)
	}
	if ok {
		return nil
	}
	return p.SetDeviceToken(token)
}

func (p *PushService) Notify(ctx context.Context, title, body string) error {
	if p.client == nil {
		return ErrPushDisabled
	}

	token, ok, err := p.tokens.Get(DeviceTokenKey)
	if err != nil {
		return fmt.Errorf("read device token: %w", err)
	}
	if !ok || token == "" {
		return ErrNoDeviceToken
	}

	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: map[string]string{"type": "goal_reminder"},
	}

	if _, err := p.client.Send(ctx, msg); err != nil {
		return fmt.Errorf("FCM send: %w", err)
	}
	return nil
}
