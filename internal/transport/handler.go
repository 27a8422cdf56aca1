// Package transport exposes the ledger engine over an HTTP JSON API.
// Amounts travel as decimal strings; the caller identity rides in the
// request body, authentication is a gateway concern.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strconv"

	"github.com/vestlock-labs/vestlock-backend/internal/ledger"
	"github.com/vestlock-labs/vestlock-backend/internal/model"
	"go.uber.org/zap"
)

// Handler routes ledger operations.
type Handler struct {
	engine *ledger.Engine
	logger *zap.Logger
}

// NewHandler returns a Handler over the engine.
func NewHandler(engine *ledger.Engine, logger *zap.Logger) (*Handler, error) {
	if engine == nil {
		return nil, errors.New("ledger engine is required")
	}
	return &Handler{engine: engine, logger: logger.Named("transport")}, nil
}

// Register mounts every route on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/plans", h.createPlans)
	mux.HandleFunc("POST /v1/vesting-plans", h.createVestingPlan)
	mux.HandleFunc("POST /v1/vesting-plans/redeem", h.redeemVesting)
	mux.HandleFunc("POST /v1/plans/redeem", h.redeemVestingPlans)
	mux.HandleFunc("POST /v1/plans/unlock", h.unlock)
	mux.HandleFunc("POST /v1/plans/redeem-and-unlock", h.redeemAndUnlock)
	mux.HandleFunc("POST /v1/plans/revoke", h.revoke)
	mux.HandleFunc("POST /v1/plans/future-revoke", h.futureRevoke)
	mux.HandleFunc("POST /v1/plans/delegate", h.delegate)
	mux.HandleFunc("POST /v1/delegation/operators", h.setOperatorApproval)

	mux.HandleFunc("POST /v1/plans/{id}/burn-revoked", h.burnRevoked)
	mux.HandleFunc("POST /v1/plans/{id}/lock-details", h.editLockDetails)
	mux.HandleFunc("POST /v1/plans/{id}/transferability", h.updateTransferability)
	mux.HandleFunc("POST /v1/plans/{id}/admin-transfer-obo", h.updateAdminTransferOBO)
	mux.HandleFunc("POST /v1/plans/{id}/vesting-admin", h.updateVestingAdmin)
	mux.HandleFunc("POST /v1/plans/{id}/redeemers", h.approveRedeemer)
	mux.HandleFunc("POST /v1/plans/{id}/delegators", h.approveDelegator)

	mux.HandleFunc("GET /v1/plans/{id}/vesting", h.getVestingPlan)
	mux.HandleFunc("GET /v1/plans/{id}/lockup", h.getVestingLock)
	mux.HandleFunc("GET /v1/plans/{id}/balance", h.getLockBalance)
	mux.HandleFunc("GET /v1/plans/{id}/end", h.getLockEnd)
	mux.HandleFunc("GET /v1/plans/{id}/state", h.getPlanState)
	mux.HandleFunc("GET /v1/plans/{id}/delegatee", h.getDelegatee)
	mux.HandleFunc("GET /v1/votes/{account}", h.getVotes)
}

type schedulePayload struct {
	Amount string `json:"amount"`
	Start  uint64 `json:"start"`
	Cliff  uint64 `json:"cliff"`
	Rate   string `json:"rate"`
	Period uint64 `json:"period"`
}

func (p schedulePayload) toModel() (model.Schedule, error) {
	amount, err := parseAmount(p.Amount)
	if err != nil {
		return model.Schedule{}, fmt.Errorf("amount: %w", err)
	}
	rate, err := parseAmount(p.Rate)
	if err != nil {
		return model.Schedule{}, fmt.Errorf("rate: %w", err)
	}
	return model.Schedule{
		Amount: amount,
		Start:  p.Start,
		Cliff:  p.Cliff,
		Rate:   rate,
		Period: p.Period,
	}, nil
}

func scheduleToPayload(amount *big.Int, start, cliff uint64, rate *big.Int, period uint64) schedulePayload {
	return schedulePayload{
		Amount: amount.String(),
		Start:  start,
		Cliff:  cliff,
		Rate:   rate.String(),
		Period: period,
	}
}

func parseAmount(s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid decimal amount %q", s)
	}
	return v, nil
}

type createPlansRequest struct {
	Caller           model.Account     `json:"caller"`
	TotalAmount      string            `json:"totalAmount"`
	VestingAdmin     model.Account     `json:"vestingAdmin"`
	AdminTransferOBO bool              `json:"adminTransferOBO"`
	Recipients       []recipientInput  `json:"recipients"`
	VestingSchedules []schedulePayload `json:"vestingSchedules"`
	LockupSchedules  []schedulePayload `json:"lockupSchedules"`
	Delegatees       []model.Account   `json:"delegatees,omitempty"`
}

type recipientInput struct {
	Beneficiary model.Account `json:"beneficiary"`
	AdminRedeem bool          `json:"adminRedeem"`
}

func (h *Handler) createPlans(w http.ResponseWriter, r *http.Request) {
	var req createPlansRequest
	if !h.decode(w, r, &req) {
		return
	}

	total, err := parseAmount(req.TotalAmount)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	vesting, err := payloadsToSchedules(req.VestingSchedules)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	lockup, err := payloadsToSchedules(req.LockupSchedules)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	recipients := make([]model.Recipient, len(req.Recipients))
	for i, rec := range req.Recipients {
		recipients[i] = model.Recipient{Beneficiary: rec.Beneficiary, AdminRedeem: rec.AdminRedeem}
	}
	terms := ledger.BatchTerms{
		TotalAmount:      total,
		VestingAdmin:     req.VestingAdmin,
		AdminTransferOBO: req.AdminTransferOBO,
	}

	var ids []model.ID
	if req.Delegatees != nil {
		ids, err = h.engine.CreateVestingLockupPlansWithDelegation(r.Context(), req.Caller, terms, recipients, vesting, lockup, req.Delegatees)
	} else {
		ids, err = h.engine.CreateVestingLockupPlans(r.Context(), req.Caller, terms, recipients, vesting, lockup)
	}
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]any{"ids": ids})
}

func payloadsToSchedules(payloads []schedulePayload) ([]model.Schedule, error) {
	out := make([]model.Schedule, len(payloads))
	for i, p := range payloads {
		s, err := p.toModel()
		if err != nil {
			return nil, fmt.Errorf("schedule %d: %w", i, err)
		}
		out[i] = s
	}
	return out, nil
}

type createVestingPlanRequest struct {
	Caller           model.Account   `json:"caller"`
	Owner            model.Account   `json:"owner"`
	Schedule         schedulePayload `json:"schedule"`
	VestingAdmin     model.Account   `json:"vestingAdmin"`
	AdminRedeem      bool            `json:"adminRedeem"`
	AdminTransferOBO bool            `json:"adminTransferOBO"`
}

func (h *Handler) createVestingPlan(w http.ResponseWriter, r *http.Request) {
	var req createVestingPlanRequest
	if !h.decode(w, r, &req) {
		return
	}
	s, err := req.Schedule.toModel()
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	id, err := h.engine.CreateVestingPlan(r.Context(), req.Caller, req.Owner, ledger.VestingTerms{
		Schedule:         s,
		VestingAdmin:     req.VestingAdmin,
		AdminRedeem:      req.AdminRedeem,
		AdminTransferOBO: req.AdminTransferOBO,
	})
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

type handlesRequest struct {
	Caller  model.Account `json:"caller"`
	Handles []model.ID    `json:"handles"`
}

func (h *Handler) redeemVesting(w http.ResponseWriter, r *http.Request) {
	h.handleBatch(w, r, h.engine.RedeemPlans)
}

func (h *Handler) redeemVestingPlans(w http.ResponseWriter, r *http.Request) {
	h.handleBatch(w, r, h.engine.RedeemVestingPlans)
}

func (h *Handler) unlock(w http.ResponseWriter, r *http.Request) {
	h.handleBatch(w, r, h.engine.Unlock)
}

func (h *Handler) redeemAndUnlock(w http.ResponseWriter, r *http.Request) {
	h.handleBatch(w, r, h.engine.RedeemAndUnlock)
}

func (h *Handler) revoke(w http.ResponseWriter, r *http.Request) {
	h.handleBatch(w, r, h.engine.RevokePlans)
}

func (h *Handler) handleBatch(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, caller model.Account, handles []model.ID) error,
) {
	var req handlesRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := op(r.Context(), req.Caller, req.Handles); err != nil {
		h.writeLedgerError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type futureRevokeRequest struct {
	Caller   model.Account `json:"caller"`
	Handles  []model.ID    `json:"handles"`
	RevokeAt uint64        `json:"revokeAt"`
}

func (h *Handler) futureRevoke(w http.ResponseWriter, r *http.Request) {
	var req futureRevokeRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.engine.FutureRevokePlans(r.Context(), req.Caller, req.Handles, req.RevokeAt); err != nil {
		h.writeLedgerError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type delegateRequest struct {
	Caller     model.Account   `json:"caller"`
	Handles    []model.ID      `json:"handles"`
	Delegatees []model.Account `json:"delegatees"`
}

func (h *Handler) delegate(w http.ResponseWriter, r *http.Request) {
	var req delegateRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.engine.DelegatePlans(r.Context(), req.Caller, req.Handles, req.Delegatees); err != nil {
		h.writeLedgerError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type operatorApprovalRequest struct {
	Caller   model.Account `json:"caller"`
	Operator model.Account `json:"operator"`
	Approved bool          `json:"approved"`
}

func (h *Handler) setOperatorApproval(w http.ResponseWriter, r *http.Request) {
	var req operatorApprovalRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.engine.SetApprovalForAllDelegation(r.Context(), req.Caller, req.Operator, req.Approved); err != nil {
		h.writeLedgerError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type callerRequest struct {
	Caller model.Account `json:"caller"`
}

func (h *Handler) burnRevoked(w http.ResponseWriter, r *http.Request) {
	id, ok := h.planID(w, r)
	if !ok {
		return
	}
	var req callerRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.engine.BurnRevokedVesting(r.Context(), req.Caller, id); err != nil {
		h.writeLedgerError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type editLockRequest struct {
	Caller   model.Account   `json:"caller"`
	Schedule schedulePayload `json:"schedule"`
}

func (h *Handler) editLockDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := h.planID(w, r)
	if !ok {
		return
	}
	var req editLockRequest
	if !h.decode(w, r, &req) {
		return
	}
	s, err := req.Schedule.toModel()
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.engine.EditLockDetails(r.Context(), req.Caller, id, s); err != nil {
		h.writeLedgerError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type flagRequest struct {
	Caller  model.Account `json:"caller"`
	Enabled bool          `json:"enabled"`
}

func (h *Handler) updateTransferability(w http.ResponseWriter, r *http.Request) {
	id, ok := h.planID(w, r)
	if !ok {
		return
	}
	var req flagRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.engine.UpdateTransferability(r.Context(), req.Caller, id, req.Enabled); err != nil {
		h.writeLedgerError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) updateAdminTransferOBO(w http.ResponseWriter, r *http.Request) {
	id, ok := h.planID(w, r)
	if !ok {
		return
	}
	var req flagRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.engine.UpdateAdminTransferOBO(r.Context(), req.Caller, id, req.Enabled); err != nil {
		h.writeLedgerError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type accountRequest struct {
	Caller  model.Account `json:"caller"`
	Account model.Account `json:"account"`
}

func (h *Handler) updateVestingAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := h.planID(w, r)
	if !ok {
		return
	}
	var req accountRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.engine.UpdateVestingAdmin(r.Context(), req.Caller, id, req.Account); err != nil {
		h.writeLedgerError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) approveRedeemer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.planID(w, r)
	if !ok {
		return
	}
	var req accountRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.engine.ApproveRedeemer(r.Context(), req.Caller, id, req.Account); err != nil {
		h.writeLedgerError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) approveDelegator(w http.ResponseWriter, r *http.Request) {
	id, ok := h.planID(w, r)
	if !ok {
		return
	}
	var req accountRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.engine.ApproveDelegator(r.Context(), req.Caller, id, req.Account); err != nil {
		h.writeLedgerError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) getVestingPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := h.planID(w, r)
	if !ok {
		return
	}
	vp, err := h.engine.GetVestingPlan(id)
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"id":           vp.ID,
		"owner":        vp.Owner,
		"schedule":     scheduleToPayload(vp.Amount, vp.Start, vp.Cliff, vp.Rate, vp.Period),
		"pointer":      vp.Pointer,
		"vestingAdmin": vp.VestingAdmin,
		"adminRedeem":  vp.AdminRedeem,
		"revoked":      vp.Revoked,
		"exhausted":    vp.Exhausted,
	})
}

func (h *Handler) getVestingLock(w http.ResponseWriter, r *http.Request) {
	id, ok := h.planID(w, r)
	if !ok {
		return
	}
	lp, err := h.engine.GetVestingLock(id)
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"id":              lp.ID,
		"beneficiary":     lp.Beneficiary,
		"vestingHandle":   lp.VestingHandle,
		"schedule":        scheduleToPayload(lp.Amount, lp.Start, lp.Cliff, lp.Rate, lp.Period),
		"pointer":         lp.Pointer,
		"unpaid":          lp.Unpaid.String(),
		"totalAmount":     lp.TotalAmount.String(),
		"availableAmount": lp.AvailableAmount.String(),
		"paidOut":         lp.PaidOut.String(),
		"vestingAdmin":    lp.VestingAdmin,
		"transferable":    lp.Transferable,
	})
}

func (h *Handler) getLockBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := h.planID(w, r)
	if !ok {
		return
	}
	bal, err := h.engine.GetLockBalance(id)
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"locked":     bal.Locked.String(),
		"unlocked":   bal.Unlocked.String(),
		"unlockTime": bal.UnlockTime,
	})
}

func (h *Handler) getLockEnd(w http.ResponseWriter, r *http.Request) {
	id, ok := h.planID(w, r)
	if !ok {
		return
	}
	end, err := h.engine.GetLockEnd(id)
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"end": end})
}

func (h *Handler) getPlanState(w http.ResponseWriter, r *http.Request) {
	id, ok := h.planID(w, r)
	if !ok {
		return
	}
	state, err := h.engine.PlanState(id)
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"state": state})
}

func (h *Handler) getDelegatee(w http.ResponseWriter, r *http.Request) {
	id, ok := h.planID(w, r)
	if !ok {
		return
	}
	delegatee, err := h.engine.DelegatedTo(id)
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"delegatee": delegatee})
}

func (h *Handler) getVotes(w http.ResponseWriter, r *http.Request) {
	account := model.Account(r.PathValue("account"))
	h.writeJSON(w, http.StatusOK, map[string]any{
		"votes": h.engine.VotesOf(account).String(),
	})
}

func (h *Handler) planID(w http.ResponseWriter, r *http.Request) (model.ID, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid plan id %q", raw))
		return 0, false
	}
	return model.ID(id), true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return false
	}
	return true
}

func (h *Handler) writeLedgerError(w http.ResponseWriter, err error) {
	switch {
	case model.IsValidation(err):
		h.writeError(w, http.StatusBadRequest, err)
	case model.IsAuthorization(err):
		h.writeError(w, http.StatusForbidden, err)
	case errors.Is(err, model.ErrPlanNotFound):
		h.writeError(w, http.StatusNotFound, err)
	case errors.Is(err, model.ErrAllocated),
		errors.Is(err, model.ErrNotCustodied),
		errors.Is(err, model.ErrNotEditable),
		errors.Is(err, model.ErrNotRevoked),
		errors.Is(err, model.ErrNotDrained),
		errors.Is(err, model.ErrNoUnlockedFunds),
		errors.Is(err, model.ErrAlreadyRevoked),
		errors.Is(err, model.ErrRevokeInThePast),
		errors.Is(err, model.ErrInsufficientBal):
		h.writeError(w, http.StatusConflict, err)
	default:
		h.logger.Error("ledger operation failed", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, errors.New("internal error"))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, code int, err error) {
	h.writeJSON(w, code, map[string]any{"error": err.Error()})
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response", zap.Error(err))
	}
}
