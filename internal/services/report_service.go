package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"majalah/internal/repositories"
	"majalah/pkg/mailer"
)

// ReportService mails the admin a daily summary of platform activity.
type ReportService struct {
	subs       repositories.SubscriptionRepository
	magazines  repositories.MagazineRepository
	mailer     mailer.Mailer
	adminEmail string
}

// NewReportService creates a new ReportService.
func NewReportService(
	subs repositories.SubscriptionRepository,
	magazines repositories.MagazineRepository,
	m mailer.Mailer,
	adminEmail string,
) *ReportService {
	return &ReportService{
		subs:       subs,
		magazines:  magazines,
		mailer:     m,
		adminEmail: adminEmail,
	}
}

// DailyReport counts the subscriptions and publish requests created in the
// last 24 hours and mails the admin a summary.
func (s *ReportService) DailyReport(ctx context.Context) error {
	since := time.Now().Add(-24 * time.Hour)

	var subCount, requestCount int64
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		subCount, err = s.subs.CountSince(since)
		return err
	})
	g.Go(func() error {
		var err error
		requestCount, err = s.magazines.CountRequestsSince(since)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to gather daily report counts: %w", err)
	}

	body := fmt.Sprintf(
		"<h2>Platform activity over the last 24 hours</h2><ul><li>New subscriptions: <strong>%d</strong></li><li>New publish requests: <strong>%d</strong></li></ul><p>Generated at %s</p>",
		subCount, requestCount, time.Now().Format(time.RFC1123))
	if err := s.mailer.Send(ctx, s.adminEmail, "Daily platform report", body); err != nil {
		return fmt.Errorf("failed to send daily report: %w", err)
	}
	return nil
}
