package services

import (
	"context"
	"fmt"

	"disasterprep/model"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// Notifier pushes alerts to subscribed devices.
type Notifier interface {
	NotifyAlert(ctx context.Context, a model.Alert) error
}

// messageSender is the part of messaging.Client the notifier needs.
type messageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMNotifier publishes alerts to one Firebase Cloud Messaging topic.
type FCMNotifier struct {
	sender messageSender
	topic  string
	logger *zap.Logger
}

func NewFCMNotifier(ctx context.Context, app *firebase.App, topic string, logger *zap.Logger) (*FCMNotifier, error) {
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting Messaging client: %w", err)
	}
	return newFCMNotifier(client, topic, logger), nil
}

func newFCMNotifier(sender messageSender, topic string, logger *zap.Logger) *FCMNotifier {
	return &FCMNotifier{sender: sender, topic: topic, logger: logger}
}

func (n *FCMNotifier) NotifyAlert(ctx context.Context, a model.Alert) error {
	msg := &messaging.Message{
		Topic: n.topic,
		Notification: &messaging.Notification{
			Title: a.Title,
			Body:  a.Description,
		},
		Data: map[string]string{
			"alertId":  a.ID,
			"type":     string(a.Type),
			"severity": string(a.Severity),
			"areaName": a.AreaName,
			"source":   string(a.Source),
		},
		Android: &messaging.AndroidConfig{Priority: "high"},
	}

	id, err := n.sender.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("send alert %s to topic %s: %w", a.ID, n.topic, err)
	}
	n.logger.Info("alert pushed",
		zap.String("alert_id", a.ID),
		zap.String("topic", n.topic),
		zap.String("message_id", id),
	)
	return nil
}

// NopNotifier drops every alert; used when push is disabled.
type NopNotifier struct{}

func (NopNotifier) NotifyAlert(context.Context, model.Alert) error { return nil }
