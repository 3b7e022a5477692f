package session

import (
	"time"

	"github.com/blaubaer/call-indicator/pkg/notify"
)

const unknownErrorDetail = "Unknown error"

func configurationNeededNotification() notify.Notification {
	return notify.Notification{
		Kind:     notify.KindWarning,
		Title:    "Voice Configuration Needed",
		Message:  "Please update the public key and the agent id with your credentials.",
		Duration: 10 * time.Second,
	}
}

func configurationBlocksCallNotification() notify.Notification {
	return notify.Notification{
		Kind:     notify.KindWarning,
		Title:    "Voice Configuration Needed",
		Message:  "Cannot start call. Please update the public key and the agent id.",
		Duration: 7 * time.Second,
	}
}

func notReadyNotification() notify.Notification {
	return notify.Notification{
		Kind:     notify.KindWarning,
		Title:    "Voice Assistant Not Ready",
		Message:  "The voice session is not initialized yet. Please wait or check credentials.",
		Duration: 3 * time.Second,
	}
}

func initFailedNotification(err error) notify.Notification {
	return notify.Notification{
		Kind:     notify.KindError,
		Title:    "Voice Initialization Failed",
		Message:  err.Error(),
		Duration: 5 * time.Second,
	}
}

func callStartedNotification() notify.Notification {
	return notify.Notification{
		Kind:     notify.KindInfo,
		Title:    "Call Started",
		Message:  "Connected to voice agent.",
		Duration: 3 * time.Second,
	}
}

func callEndedNotification() notify.Notification {
	return notify.Notification{
		Kind:     notify.KindInfo,
		Title:    "Call Ended",
		Message:  "Disconnected from voice agent.",
		Duration: 3 * time.Second,
	}
}

func runtimeErrorNotification(detail string) notify.Notification {
	return notify.Notification{
		Kind:     notify.KindError,
		Title:    "Voice Error",
		Message:  "An error occurred: " + detail,
		Duration: 5 * time.Second,
	}
}
