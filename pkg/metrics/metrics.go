package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RemindersSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "academy_reminders_sent_total",
		Help: "Session reminders sent, by window (24h/1h).",
	}, []string{"window"})

	SMSDispatched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "academy_sms_dispatched_total",
		Help: "SMS messages handed to the dispatch transport.",
	})

	SMSFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "academy_sms_failed_total",
		Help: "SMS dispatch attempts that errored.",
	})

	WaitlistPromotions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "academy_waitlist_promotions_total",
		Help: "Waitlist entries moved to notified.",
	})

	FreezesApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "academy_freezes_applied_total",
		Help: "Subscription freezes applied.",
	})

	SessionConflictsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "academy_session_conflicts_rejected_total",
		Help: "Session create/update attempts rejected for interval conflicts.",
	})
)
