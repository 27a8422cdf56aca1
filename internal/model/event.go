package model

import "time"

// EventType labels one journal entry.
type EventType string

var (
	EventPlanCreated             EventType = "plan_created"
	EventVestingRedeemed         EventType = "vesting_redeemed"
	EventUnlocked                EventType = "unlocked"
	EventLockEdited              EventType = "lock_edited"
	EventPlanRevoked             EventType = "plan_revoked"
	EventPlanFutureRevoked       EventType = "plan_future_revoked"
	EventPlanBurned              EventType = "plan_burned"
	EventDelegated               EventType = "delegated"
	EventDelegatorApproved       EventType = "delegator_approved"
	EventOperatorApprovalSet     EventType = "operator_approval_set"
	EventRedeemerApproved        EventType = "redeemer_approved"
	EventVestingAdminUpdated     EventType = "vesting_admin_updated"
	EventTransferabilityUpdated  EventType = "transferability_updated"
	EventAdminTransferOBOUpdated EventType = "admin_transfer_obo_updated"
	// EventVestingSyncRecovered marks the consistency-recovery branch: the
	// vesting side failed mid-redeem and custody counters were truncated.
	EventVestingSyncRecovered EventType = "vesting_sync_recovered"
)

// LedgerEvent is one journal row. Amount is the decimal string rendering of
// the moved value, empty when the event moves no value.
type LedgerEvent struct {
	Type      EventType
	PlanID    ID
	Account   Account
	Amount    string
	LedgerAt  uint64
	CreatedAt time.Time
}
