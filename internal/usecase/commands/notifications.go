package commands

import (
	"fmt"
	"strings"
	"time"

	"salon-booking/internal/domain/appointment"
	"salon-booking/internal/usecase/shared"
)

const (
	jobKindEmail         = "email"
	notificationTimeForm = "Monday, 02 Jan 2006 15:04"
)

func confirmationJob(a *appointment.Appointment, to, clientName, staffName string, loc *time.Location, now time.Time) shared.NotificationJob {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", clientName)
	fmt.Fprintf(&b, "Your appointment with %s is booked for %s.\n", staffName, a.StartAt().In(loc).Format(notificationTimeForm))
	b.WriteString("Services:\n")
	for _, s := range a.Services() {
		fmt.Fprintf(&b, "  - %s (%d min)\n", s.Name, s.DurationMin)
	}
	fmt.Fprintf(&b, "Total: %s\n", formatCents(a.TotalCents()))

	return shared.NotificationJob{
		Kind:      jobKindEmail,
		Topic:     shared.TopicAppointmentCreated,
		Recipient: to,
		Subject:   "Your appointment is booked",
		Body:      b.String(),
		RunAt:     now,
	}
}

func cancellationJob(a *appointment.Appointment, to, clientName string, loc *time.Location, now time.Time) shared.NotificationJob {
	body := fmt.Sprintf("Hello %s,\n\nYour appointment on %s has been cancelled.\n",
		clientName, a.StartAt().In(loc).Format(notificationTimeForm))

	return shared.NotificationJob{
		Kind:      jobKindEmail,
		Topic:     shared.TopicAppointmentCancelled,
		Recipient: to,
		Subject:   "Your appointment was cancelled",
		Body:      body,
		RunAt:     now,
	}
}

func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
