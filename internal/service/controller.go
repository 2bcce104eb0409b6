package service

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jwrobel/budzetnik/internal/categories"
	"github.com/jwrobel/budzetnik/internal/database/repository"
	"github.com/jwrobel/budzetnik/internal/format"
	"github.com/jwrobel/budzetnik/internal/i18n"
	"github.com/jwrobel/budzetnik/internal/oracle"
	"github.com/jwrobel/budzetnik/internal/state"
)

// Option is one selectable choice attached to a Reply, with its wire
// encoding as Data.
type Option struct {
	Label string
	Data  string
}

// Reply is what a surface renders back to the requester.
type Reply struct {
	Text    string
	BatchID string
	Options []Option
}

// incomePattern matches the "+<amount> <source>" shortcut that bypasses
// the oracle entirely.
var incomePattern = regexp.MustCompile(`^\+(\d+(?:[.,]\d+)?)\s+(.+)$`)

// Controller drives the parse, confirm, edit and undo flows. It is
// transport-agnostic: surfaces hand it raw text or a decoded Action and
// render the Reply however they like.
type Controller struct {
	Oracle    oracle.Parser
	State     *state.Store
	Committer *Committer
	Incomes   *repository.IncomeRepo // nil when the primary ledger is not configured
	Users     *repository.UserRepo   // nil when the primary ledger is not configured
	AllowedID int64                  // 0 disables the guard
	Log       zerolog.Logger
	Now       func() time.Time
}

func (c *Controller) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Controller) authorized(requesterID int64) bool {
	return c.AllowedID == 0 || requesterID == c.AllowedID
}

// HandleText processes one free-form message: the income shortcut when it
// matches, otherwise the oracle and a new pending batch.
func (c *Controller) HandleText(ctx context.Context, requesterID int64, text string) (Reply, error) {
	if !c.authorized(requesterID) {
		return Reply{Text: i18n.T("access_denied")}, nil
	}
	text = strings.TrimSpace(text)

	if m := incomePattern.FindStringSubmatch(text); m != nil {
		return c.recordIncome(ctx, requesterID, m[1], m[2])
	}

	records, err := c.Oracle.Parse(ctx, text, c.now())
	if err != nil {
		if errors.Is(err, oracle.ErrMalformed) {
			c.Log.Warn().Err(err).Msg("oracle output rejected")
			return Reply{Text: i18n.T("parse_error")}, nil
		}
		c.Log.Error().Err(err).Msg("oracle call failed")
		return Reply{Text: i18n.T("general_error")}, nil
	}
	if len(records) == 0 {
		return Reply{Text: i18n.T("no_expense_found")}, nil
	}

	batch := state.PendingBatch{
		ID:           uuid.NewString(),
		RequesterID:  requesterID,
		Records:      records,
		OriginalText: text,
		CreatedAt:    c.now(),
	}
	if err := c.State.Put(ctx, batch); err != nil {
		c.Log.Error().Err(err).Msg("store pending batch")
		return Reply{Text: i18n.T("general_error")}, nil
	}
	return Reply{
		Text:    format.Preview(records),
		BatchID: batch.ID,
		Options: confirmOptions(batch.ID, len(records)),
	}, nil
}

func (c *Controller) recordIncome(ctx context.Context, requesterID int64, amountText, source string) (Reply, error) {
	if c.Incomes == nil {
		return Reply{Text: i18n.T("db_required")}, nil
	}
	amount, err := decimal.NewFromString(strings.Replace(amountText, ",", ".", 1))
	if err != nil || !amount.IsPositive() {
		return Reply{Text: i18n.T("income_error")}, nil
	}
	userID, err := c.Users.GetOrCreate(ctx, requesterID, "")
	if err != nil {
		c.Log.Error().Err(err).Msg("resolve user for income")
		return Reply{Text: i18n.T("income_error")}, nil
	}
	_, err = c.Incomes.Insert(ctx, repository.Income{
		UserID: userID,
		Amount: amount,
		Source: strings.TrimSpace(source),
		Date:   c.now().Format("2006-01-02"),
	})
	if err != nil {
		c.Log.Error().Err(err).Msg("insert income")
		return Reply{Text: i18n.T("income_error")}, nil
	}
	return Reply{Text: i18n.T("income_saved", format.Amount(amount), strings.TrimSpace(source))}, nil
}

// HandleAction dispatches a decoded Action against its pending batch.
func (c *Controller) HandleAction(ctx context.Context, requesterID int64, batchID string, a Action) (Reply, error) {
	if !c.authorized(requesterID) {
		return Reply{Text: i18n.T("access_denied")}, nil
	}
	switch a.Kind {
	case ActionConfirm:
		return c.confirm(ctx, requesterID, batchID)
	case ActionCancel:
		return c.cancel(ctx, requesterID, batchID)
	case ActionEdit:
		return c.editMenu(ctx, requesterID, batchID, a.Item)
	case ActionSelectCategory:
		return c.subcategoryMenu(ctx, requesterID, batchID, a)
	case ActionSelectSubcategory:
		return c.applyCategory(ctx, requesterID, batchID, a)
	case ActionBack:
		return c.backToPreview(ctx, requesterID, batchID)
	default:
		return Reply{Text: i18n.T("general_error")}, nil
	}
}

// confirm commits a batch. The identity check happens before the pop so a
// foreign requester never mutates the batch; the pop is what decides the
// winner under a concurrent cancel. A failed commit after the pop is
// terminal: the batch is gone and the requester must resend.
func (c *Controller) confirm(ctx context.Context, requesterID int64, batchID string) (Reply, error) {
	batch, err := c.State.Get(ctx, batchID)
	if err != nil {
		return Reply{}, err
	}
	if batch == nil {
		return Reply{Text: i18n.T("expense_expired")}, nil
	}
	if batch.RequesterID != requesterID {
		return Reply{Text: i18n.T("not_your_expense")}, nil
	}
	batch, err = c.State.Pop(ctx, batchID)
	if err != nil {
		return Reply{}, err
	}
	if batch == nil {
		return Reply{Text: i18n.T("expense_expired")}, nil
	}
	if _, err := c.Committer.Commit(ctx, requesterID, batch.Records, batch.OriginalText); err != nil {
		c.Log.Error().Err(err).Str("batch", batchID).Msg("commit failed")
		return Reply{Text: i18n.T("save_error")}, nil
	}
	return Reply{Text: format.SaveConfirmation(batch.Records)}, nil
}

func (c *Controller) cancel(ctx context.Context, requesterID int64, batchID string) (Reply, error) {
	batch, err := c.State.Get(ctx, batchID)
	if err != nil {
		return Reply{}, err
	}
	if batch == nil {
		return Reply{Text: i18n.T("expense_expired")}, nil
	}
	if batch.RequesterID != requesterID {
		return Reply{Text: i18n.T("not_your_expense")}, nil
	}
	batch, err = c.State.Pop(ctx, batchID)
	if err != nil {
		return Reply{}, err
	}
	if batch == nil {
		return Reply{Text: i18n.T("expense_expired")}, nil
	}
	return Reply{Text: i18n.T("cancelled")}, nil
}

// editMenu shows the category picker for one record of the batch.
func (c *Controller) editMenu(ctx context.Context, requesterID int64, batchID string, item int) (Reply, error) {
	batch, reply, err := c.ownedBatch(ctx, requesterID, batchID)
	if batch == nil {
		return reply, err
	}
	if item >= len(batch.Records) {
		return Reply{Text: i18n.T("general_error")}, nil
	}
	names := categories.Names()
	opts := make([]Option, 0, len(names)+1)
	for i, name := range names {
		opts = append(opts, Option{
			Label: categories.Emoji(name) + " " + name,
			Data:  "cat:" + batchID + ":" + itoa(item) + ":" + itoa(i),
		})
	}
	opts = append(opts, Option{Label: "« Wstecz", Data: "back:" + batchID})
	return Reply{Text: i18n.T("edit_category_prompt"), BatchID: batchID, Options: opts}, nil
}

func (c *Controller) subcategoryMenu(ctx context.Context, requesterID int64, batchID string, a Action) (Reply, error) {
	batch, reply, err := c.ownedBatch(ctx, requesterID, batchID)
	if batch == nil {
		return reply, err
	}
	names := categories.Names()
	if a.Item >= len(batch.Records) || a.Category >= len(names) {
		return Reply{Text: i18n.T("general_error")}, nil
	}
	subs := categories.Subcategories(names[a.Category])
	opts := make([]Option, 0, len(subs)+1)
	for j, sub := range subs {
		opts = append(opts, Option{
			Label: sub,
			Data:  "sub:" + batchID + ":" + itoa(a.Item) + ":" + itoa(a.Category) + ":" + itoa(j),
		})
	}
	opts = append(opts, Option{Label: "« Wstecz", Data: "edit:" + batchID + ":" + itoa(a.Item)})
	return Reply{Text: i18n.T("edit_subcategory_prompt"), BatchID: batchID, Options: opts}, nil
}

// applyCategory rewrites one record's category pair and stores the batch
// back. Amount, date and description are untouched.
func (c *Controller) applyCategory(ctx context.Context, requesterID int64, batchID string, a Action) (Reply, error) {
	batch, reply, err := c.ownedBatch(ctx, requesterID, batchID)
	if batch == nil {
		return reply, err
	}
	names := categories.Names()
	if a.Item >= len(batch.Records) || a.Category >= len(names) {
		return Reply{Text: i18n.T("general_error")}, nil
	}
	subs := categories.Subcategories(names[a.Category])
	if a.Subcategory >= len(subs) {
		return Reply{Text: i18n.T("general_error")}, nil
	}
	batch.Records[a.Item].Category = names[a.Category]
	batch.Records[a.Item].Subcategory = subs[a.Subcategory]
	if err := c.State.Put(ctx, *batch); err != nil {
		c.Log.Error().Err(err).Str("batch", batchID).Msg("store edited batch")
		return Reply{Text: i18n.T("general_error")}, nil
	}
	return Reply{
		Text:    format.Preview(batch.Records),
		BatchID: batchID,
		Options: confirmOptions(batchID, len(batch.Records)),
	}, nil
}

func (c *Controller) backToPreview(ctx context.Context, requesterID int64, batchID string) (Reply, error) {
	batch, reply, err := c.ownedBatch(ctx, requesterID, batchID)
	if batch == nil {
		return reply, err
	}
	return Reply{
		Text:    format.Preview(batch.Records),
		BatchID: batchID,
		Options: confirmOptions(batchID, len(batch.Records)),
	}, nil
}

// Undo reverses the requester's most recent commit.
func (c *Controller) Undo(ctx context.Context, requesterID int64) (Reply, error) {
	if !c.authorized(requesterID) {
		return Reply{Text: i18n.T("access_denied")}, nil
	}
	n, err := c.Committer.Undo(ctx, requesterID)
	if err != nil {
		if errors.Is(err, ErrNothingToUndo) {
			return Reply{Text: i18n.T("nothing_to_undo")}, nil
		}
		c.Log.Error().Err(err).Int64("requester", requesterID).Msg("undo failed")
		return Reply{Text: i18n.T("undo_error")}, nil
	}
	if n == 1 {
		return Reply{Text: i18n.T("undo_single")}, nil
	}
	return Reply{Text: i18n.T("undo_multi", n)}, nil
}

// ownedBatch fetches a batch and enforces ownership without consuming it.
// A nil batch return means the reply already carries the refusal text.
func (c *Controller) ownedBatch(ctx context.Context, requesterID int64, batchID string) (*state.PendingBatch, Reply, error) {
	batch, err := c.State.Get(ctx, batchID)
	if err != nil {
		return nil, Reply{}, err
	}
	if batch == nil {
		return nil, Reply{Text: i18n.T("expense_expired")}, nil
	}
	if batch.RequesterID != requesterID {
		return nil, Reply{Text: i18n.T("not_your_expense")}, nil
	}
	return batch, Reply{}, nil
}

func confirmOptions(batchID string, n int) []Option {
	opts := []Option{
		{Label: "✅ Zapisz", Data: "confirm:" + batchID},
		{Label: "❌ Anuluj", Data: "cancel:" + batchID},
	}
	for i := 0; i < n; i++ {
		label := "✏️ Edytuj"
		if n > 1 {
			label = "✏️ Edytuj " + itoa(i+1)
		}
		opts = append(opts, Option{Label: label, Data: "edit:" + batchID + ":" + itoa(i)})
	}
	return opts
}

func itoa(n int) string { return strconv.Itoa(n) }
