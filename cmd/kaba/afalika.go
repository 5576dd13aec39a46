package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/kaba-chine/kaba-admin/internal/backend"
	"github.com/kaba-chine/kaba-admin/internal/cli"
	"github.com/kaba-chine/kaba-admin/internal/common"
	"github.com/kaba-chine/kaba-admin/internal/model"
	"github.com/spf13/cobra"
)

func afalikaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "afalika",
		Short: "Synchronize deliveries with the Afalika carrier",
	}

	cmd.AddCommand(afalikaSyncCmd())
	cmd.AddCommand(afalikaUpdateCmd())
	cmd.AddCommand(afalikaLogsCmd())

	return cmd
}

func afalikaSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync [delivery-id...]",
		Short: "Push deliveries to Afalika",
		Long: `Push deliveries to Afalika, one request per delivery. With --pending, every
accepted or collected delivery that has no Afalika batch yet is pushed.

Press Ctrl+C to stop after the current delivery.`,
		RunE: withSession(runAfalikaSync),
	}

	cmd.Flags().Bool("pending", false, "push every accepted or collected delivery not yet in a batch")

	return cmd
}

func runAfalikaSync(cmd *cobra.Command, args []string, s *session) error {
	ids := args
	if pending, _ := cmd.Flags().GetBool("pending"); pending {
		deliveries, err := s.engine.AllDeliveries(cmd.Context())
		if err != nil {
			return err
		}
		ids = append(ids, unsyncedDeliveryIDs(deliveries)...)
	}
	out := cmd.OutOrStdout()
	if len(ids) == 0 {
		printLine(out, cli.FormatInfo("Aucune livraison à synchroniser"))
		return nil
	}

	handler := cli.NewInterruptHandler(out)
	ctx := handler.HandleInterrupts(cmd.Context(), "Relancez 'kaba afalika sync' pour les livraisons restantes.")

	bar := cli.NewProgressBar(out, len(ids), "Synchronisation Afalika")
	result := syncPackages(ctx, s.client, ids, func() { _ = bar.Add(1) })

	if handler.WasInterrupted() {
		return nil
	}
	for id, err := range result.Failed {
		printLine(out, cli.FormatError(id+": "+userMessage(err)))
	}
	printLine(out, cli.FormatSuccess(fmt.Sprintf("%d/%d livraisons synchronisées", len(result.Synced), len(ids))))
	if len(result.Failed) > 0 {
		return fmt.Errorf("%d deliveries failed to sync", len(result.Failed))
	}
	return nil
}

// unsyncedDeliveryIDs returns accepted or collected deliveries without an Afalika batch.
func unsyncedDeliveryIDs(deliveries []model.Delivery) []string {
	var ids []string
	for _, d := range deliveries {
		if d.AfalikaBatchID != "" {
			continue
		}
		if d.Status == model.StatusAccepted || d.Status == model.StatusCollected {
			ids = append(ids, d.ID)
		}
	}
	return ids
}

type packageSyncer interface {
	SyncPackage(ctx context.Context, deliveryID string) (*model.SyncResponse, error)
}

type syncResult struct {
	Failed map[string]error
	Synced []string
}

// syncPackages pushes ids one at a time and stops at the first cancellation.
// step is called after every attempt.
func syncPackages(ctx context.Context, syncer packageSyncer, ids []string, step func()) syncResult {
	result := syncResult{Failed: make(map[string]error)}
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		resp, err := syncer.SyncPackage(ctx, id)
		switch {
		case errors.Is(err, context.Canceled):
			return result
		case err != nil:
			result.Failed[id] = err
			common.LogError(err, "Afalika sync failed", common.Fields{"delivery": id})
		case resp != nil && !resp.Success:
			result.Failed[id] = errors.New(resp.Message)
		default:
			result.Synced = append(result.Synced, id)
		}
		if step != nil {
			step()
		}
	}
	return result
}

func afalikaUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Pull delivery statuses from Afalika",
		RunE: withSession(func(cmd *cobra.Command, _ []string, s *session) error {
			resp, err := s.client.UpdateStatuses(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !resp.Success {
				printLine(out, cli.FormatWarning(resp.Message))
				return nil
			}
			printLine(out, cli.FormatSuccess("Statuts mis à jour"))
			return nil
		}),
	}
}

func afalikaLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the Afalika exchange logs",
		Long: `Show the Afalika exchange logs. Fetched logs are cached locally so that
--offline can show them without reaching the backend.`,
		RunE: withSession(runAfalikaLogs),
	}

	cmd.Flags().Int("page", 1, "page number")
	cmd.Flags().Int("limit", backend.DefaultSyncLogLimit, "logs per page")
	cmd.Flags().Bool("offline", false, "show the cached logs")
	cmd.Flags().Bool("errors", false, "only failed exchanges")

	return cmd
}

func runAfalikaLogs(cmd *cobra.Command, _ []string, s *session) error {
	ctx := cmd.Context()
	limit, _ := cmd.Flags().GetInt("limit")
	offline, _ := cmd.Flags().GetBool("offline")
	onlyErrors, _ := cmd.Flags().GetBool("errors")
	out := cmd.OutOrStdout()

	var logs []model.SyncLog
	if offline {
		cached, err := s.store.GetSyncLogs(ctx, limit)
		if err != nil {
			return err
		}
		logs = cached
	} else {
		page, _ := cmd.Flags().GetInt("page")
		fetched, err := s.client.ListSyncLogs(ctx, page, limit)
		if err != nil {
			return err
		}
		if err := s.store.SaveSyncLogs(ctx, fetched.Data); err != nil {
			slog.Warn("Failed to cache sync logs", "error", err)
		}
		logs = fetched.Data
		defer printf(out, "Page %d/%d (%d journaux)\n", fetched.Meta.Page, fetched.Meta.TotalPages, fetched.Meta.Total)
	}

	if onlyErrors {
		logs = failedLogs(logs)
	}
	return renderSyncLogs(out, logs)
}

func failedLogs(logs []model.SyncLog) []model.SyncLog {
	var out []model.SyncLog
	for _, l := range logs {
		if l.Failed() {
			out = append(out, l)
		}
	}
	return out
}

func renderSyncLogs(w io.Writer, logs []model.SyncLog) error {
	return cli.RenderTable(w, []cli.Column[model.SyncLog]{
		cli.Field("DATE", "timestamp", func(l model.SyncLog) string { return cli.FormatDateTime(l.Timestamp) }),
		cli.Field("OPÉRATION", "operation", func(l model.SyncLog) string { return l.Operation }),
		cli.Computed("RÉSULTAT", func(l model.SyncLog) string {
			if l.Failed() {
				return cli.StyleError(cli.Truncate(l.ErrorMessage, 50))
			}
			return cli.StyleSuccess("OK")
		}),
	}, logs)
}
