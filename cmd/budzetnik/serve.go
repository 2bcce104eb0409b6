package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jwrobel/budzetnik/internal/service"
)

func nowLocal() time.Time { return time.Now() }

// newServeCmd runs the long-lived assistant: an interactive line loop on
// stdin plus the three background jobs (pending sweep, mirror sync,
// recurring materialization).
func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Uruchom asystenta z zadaniami w tle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a.recurrer.Notify = func(externalID int64, text string) {
				fmt.Println(text)
			}

			go a.runJobs(ctx)
			go a.readLoop(ctx)

			<-ctx.Done()
			a.log.Info().Msg("shutting down")
			return nil
		},
	}
}

func (a *app) runJobs(ctx context.Context) {
	jobs := a.cfg.Jobs
	sweep := time.NewTicker(time.Duration(jobs.SweepIntervalSeconds) * time.Second)
	sync := time.NewTicker(time.Duration(jobs.SyncIntervalSeconds) * time.Second)
	recurring := time.NewTicker(time.Duration(jobs.RecurringIntervalSeconds) * time.Second)
	defer sweep.Stop()
	defer sync.Stop()
	defer recurring.Stop()

	ttl := time.Duration(jobs.PendingTTLSeconds) * time.Second

	// recurring rules fire on startup too, so a stopped assistant catches
	// up as soon as it comes back
	a.fireRecurring(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-sweep.C:
			n, err := a.store.Sweep(ctx, ttl)
			if err != nil {
				a.log.Error().Err(err).Msg("pending sweep")
			} else if n > 0 {
				a.log.Info().Int("expired", n).Msg("pending sweep")
			}
		case <-sync.C:
			if _, err := a.syncer.SyncUnsynced(ctx); err != nil {
				a.log.Error().Err(err).Msg("mirror sync")
			}
		case <-recurring.C:
			a.fireRecurring(ctx)
		}
	}
}

func (a *app) fireRecurring(ctx context.Context) {
	n, err := a.recurrer.ProcessDue(ctx, time.Now())
	if err != nil {
		a.log.Error().Err(err).Msg("recurring sweep")
	} else if n > 0 {
		a.log.Info().Int("created", n).Msg("recurring sweep")
	}
}

// readLoop treats each stdin line as a message, or as an action when it
// decodes as one (the option data printed under each preview).
func (a *app) readLoop(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var reply service.Reply
		var err error
		if batchID, action, perr := service.ParseAction(line); perr == nil {
			reply, err = a.controller.HandleAction(ctx, a.requesterID, batchID, action)
		} else if line == "undo" {
			reply, err = a.controller.Undo(ctx, a.requesterID)
		} else {
			reply, err = a.controller.HandleText(ctx, a.requesterID, line)
		}
		if err != nil {
			a.log.Error().Err(err).Msg("handle input")
			continue
		}
		printReply(reply)
	}
}
