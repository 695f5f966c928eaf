// Package workflows contains the order fulfillment workflow: the state
// machine that validates an order, runs inventory reservation and payment
// authorization concurrently, joins the two outcomes, and notifies the
// customer of the terminal result exactly once.
package workflows

import (
	"errors"
	"strings"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"order-fulfillment/types"
	"order-fulfillment/validation"
)

// Defaults for options left unset on the workflow input.
const (
	defaultBranchTimeout    = 10 * time.Second
	defaultExecutionBudget  = 30 * time.Second
	defaultMaxAttempts      = 3
	defaultPreferredChannel = types.ChannelEmail
)

// WorkflowOptions carries the deterministic knobs of one execution. They
// travel in the workflow input so workflow code never reads ambient
// configuration.
type WorkflowOptions struct {
	// BranchTimeout bounds a single attempt of each step activity.
	BranchTimeout time.Duration
	// ExecutionBudget bounds the parallel phase wall-clock time; when it
	// elapses, outstanding branches are cancelled and treated as failed.
	ExecutionBudget time.Duration
	// MaxAttempts caps retries of transient step failures.
	MaxAttempts int32
	// PreferredChannel is the customer's preferred notification channel.
	PreferredChannel string
}

func (o WorkflowOptions) withDefaults() WorkflowOptions {
	if o.BranchTimeout <= 0 {
		o.BranchTimeout = defaultBranchTimeout
	}
	if o.ExecutionBudget <= 0 {
		o.ExecutionBudget = defaultExecutionBudget
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = defaultMaxAttempts
	}
	if o.PreferredChannel == "" {
		o.PreferredChannel = defaultPreferredChannel
	}
	return o
}

// OrderWorkflowInput is the input to OrderWorkflow.
type OrderWorkflowInput struct {
	Order   types.Order
	Options WorkflowOptions
}

// OrderWorkflow drives one order from submission to terminal notification:
//
//	Validating -> {ValidationFailed, ParallelProcessing}
//	ParallelProcessing -> {JoinFailed, JoinSucceeded}
//	{ValidationFailed, JoinFailed, JoinSucceeded} -> Notifying -> Completed
//
// Step failures never surface as workflow errors: every step reports a
// typed outcome and the state machine branches on it. The returned
// execution record carries the terminal result and full step history.
func OrderWorkflow(ctx workflow.Context, input OrderWorkflowInput) (*types.WorkflowExecution, error) {
	logger := workflow.GetLogger(ctx)
	opts := input.Options.withDefaults()

	exec := &types.WorkflowExecution{
		Order: input.Order,
		State: types.StateValidating,
	}
	record := func(step string, state types.WorkflowState, detail string) {
		exec.State = state
		exec.History = append(exec.History, types.StepRecord{
			Step:   step,
			State:  state,
			Detail: detail,
			At:     workflow.Now(ctx),
		})
	}

	err := workflow.SetQueryHandler(ctx, "get-execution", func() (*types.WorkflowExecution, error) {
		return exec, nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("order workflow started", "orderID", input.Order.OrderID)
	record("validate", types.StateValidating, "")

	// Validation is deterministic and dependency-free, so it runs inline
	// rather than as an activity. It gates all downstream steps.
	result := validation.ValidateOrder(input.Order)
	exec.Validation = &result

	var notifType types.NotificationType
	if !result.Valid {
		logger.Warn("order validation failed",
			"orderID", input.Order.OrderID, "errors", result.Errors)
		record("validate", types.StateValidationFailed, strings.Join(result.Errors, "; "))
		exec.FailureReason = "order validation failed"
		notifType = types.NotificationOrderFailed
	} else {
		record("parallel", types.StateParallelProcessing, "")
		inventory, payment := runParallelSteps(ctx, input.Order, opts)
		exec.Inventory = &inventory
		exec.Payment = &payment

		if inventory.Available() && payment.Approved() {
			logger.Info("order fulfilled",
				"orderID", input.Order.OrderID,
				"reservationID", inventory.ReservationID,
				"transactionID", payment.TransactionID)
			record("join", types.StateJoinSucceeded, "")
			exec.Succeeded = true
			notifType = types.NotificationOrderConfirmation
		} else {
			notifType = failureNotificationType(inventory, payment)
			exec.FailureReason = joinFailureReason(inventory, payment)
			logger.Warn("order fulfillment failed",
				"orderID", input.Order.OrderID, "reason", exec.FailureReason)
			record("join", types.StateJoinFailed, exec.FailureReason)
		}
	}

	record("notify", types.StateNotifying, string(notifType))
	notification := sendNotification(ctx, input.Order, notifType, exec.Succeeded, opts)
	exec.Notification = &notification
	record("notify", types.StateCompleted, string(notification.Status))

	logger.Info("order workflow completed",
		"orderID", input.Order.OrderID,
		"succeeded", exec.Succeeded,
		"notificationStatus", notification.Status)
	return exec, nil
}

// runParallelSteps executes the inventory and payment branches concurrently
// and waits for both, or for the execution budget to elapse. On budget
// exhaustion the outstanding branches are cancelled and stamped as failed.
// Both outcomes are always returned so the caller can report the precise
// cause; a branch that succeeded while the other failed stays committed
// (no compensation is performed).
func runParallelSteps(ctx workflow.Context, order types.Order, opts WorkflowOptions) (types.InventoryOutcome, types.PaymentOutcome) {
	logger := workflow.GetLogger(ctx)

	branchCtx, cancelBranches := workflow.WithCancel(ctx)
	branchCtx = workflow.WithActivityOptions(branchCtx, workflow.ActivityOptions{
		StartToCloseTimeout: opts.BranchTimeout,
		RetryPolicy:         retryPolicy(opts),
	})

	// One reservation per execution, driven by the order's first line item.
	item := order.Items[0]
	inventoryFuture := workflow.ExecuteActivity(branchCtx, "ReserveInventory", types.InventoryRequest{
		OrderID:   order.OrderID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
	})
	paymentFuture := workflow.ExecuteActivity(branchCtx, "ProcessPayment", types.PaymentRequest{
		OrderID:     order.OrderID,
		CustomerID:  order.CustomerID,
		TotalAmount: order.TotalAmount,
	})

	timerCtx, cancelTimer := workflow.WithCancel(ctx)
	budget := workflow.NewTimer(timerCtx, opts.ExecutionBudget)

	var (
		inventory      types.InventoryOutcome
		payment        types.PaymentOutcome
		inventoryDone  bool
		paymentDone    bool
		budgetExceeded bool
	)

	selector := workflow.NewSelector(ctx)
	selector.AddFuture(inventoryFuture, func(f workflow.Future) {
		inventoryDone = true
		if err := f.Get(ctx, &inventory); err != nil {
			inventory = inventoryFailure(err)
		}
	})
	selector.AddFuture(paymentFuture, func(f workflow.Future) {
		paymentDone = true
		if err := f.Get(ctx, &payment); err != nil {
			payment = paymentFailure(err)
		}
	})
	selector.AddFuture(budget, func(f workflow.Future) {
		if err := f.Get(ctx, nil); err != nil {
			return // timer cancelled after both branches finished
		}
		budgetExceeded = true
	})

	for !budgetExceeded && (!inventoryDone || !paymentDone) {
		selector.Select(ctx)
	}

	if budgetExceeded {
		logger.Warn("execution budget exceeded, cancelling outstanding branches",
			"orderID", order.OrderID, "budget", opts.ExecutionBudget)
		cancelBranches()
		if !inventoryDone {
			inventory = types.InventoryOutcome{
				Status:               types.InventoryError,
				UnavailabilityReason: "inventory check cancelled: execution budget exceeded",
			}
		}
		if !paymentDone {
			payment = types.PaymentOutcome{
				Status:       types.PaymentDeclined,
				ErrorCode:    types.DeclineGatewayTimeout,
				ErrorMessage: "payment cancelled: execution budget exceeded",
			}
		}
		return inventory, payment
	}

	cancelTimer()
	return inventory, payment
}

// sendNotification runs the terminal notification step. Delivery failure is
// recorded on the returned outcome, never retried at this level; bounded
// retries of transient faults happen through the activity retry policy.
func sendNotification(ctx workflow.Context, order types.Order, notifType types.NotificationType, succeeded bool, opts WorkflowOptions) types.NotificationOutcome {
	logger := workflow.GetLogger(ctx)

	orderStatus := "FAILED"
	if succeeded {
		orderStatus = "CONFIRMED"
	}

	notifyCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: opts.BranchTimeout,
		RetryPolicy:         retryPolicy(opts),
	})

	var outcome types.NotificationOutcome
	err := workflow.ExecuteActivity(notifyCtx, "SendNotification", types.NotificationRequest{
		OrderID:          order.OrderID,
		CustomerID:       order.CustomerID,
		Type:             notifType,
		PreferredChannel: opts.PreferredChannel,
		OrderStatus:      orderStatus,
	}).Get(ctx, &outcome)
	if err != nil {
		logger.Warn("notification delivery failed",
			"orderID", order.OrderID, "type", notifType, "error", err)
		outcome = types.NotificationOutcome{
			Status:    types.NotificationFailedRetryable,
			Error:     stepErrorMessage(err),
			Retryable: true,
		}
	}
	return outcome
}

func retryPolicy(opts WorkflowOptions) *temporal.RetryPolicy {
	return &temporal.RetryPolicy{
		InitialInterval:    time.Second,
		BackoffCoefficient: 2.0,
		MaximumInterval:    30 * time.Second,
		MaximumAttempts:    opts.MaxAttempts,
	}
}

// failureNotificationType picks the most specific notification for a failed
// join. When both branches failed, payment takes precedence as the earlier
// committed resource.
func failureNotificationType(inventory types.InventoryOutcome, payment types.PaymentOutcome) types.NotificationType {
	if !payment.Approved() {
		return types.NotificationPaymentFailed
	}
	return types.NotificationInventoryUnavailable
}

func joinFailureReason(inventory types.InventoryOutcome, payment types.PaymentOutcome) string {
	if !payment.Approved() {
		return "payment declined: " + payment.ErrorMessage
	}
	return "inventory unavailable: " + inventory.UnavailabilityReason
}

// inventoryFailure converts a branch error (exhausted retries or a timed
// out attempt) into the terminal inventory outcome.
func inventoryFailure(err error) types.InventoryOutcome {
	return types.InventoryOutcome{
		Status:               types.InventoryError,
		UnavailabilityReason: stepErrorMessage(err),
	}
}

// paymentFailure converts a branch error into the terminal payment outcome.
func paymentFailure(err error) types.PaymentOutcome {
	return types.PaymentOutcome{
		Status:       types.PaymentDeclined,
		ErrorCode:    types.DeclineGatewayTimeout,
		ErrorMessage: stepErrorMessage(err),
	}
}

// stepErrorMessage unwraps the application-level message from an activity
// error chain.
func stepErrorMessage(err error) string {
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Message()
	}
	return err.Error()
}
