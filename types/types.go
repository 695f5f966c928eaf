package types

import "time"

// Order is a customer order submitted to the fulfillment workflow.
// It is immutable once submitted.
type Order struct {
	OrderID     string
	CustomerID  string
	Items       []OrderItem
	TotalAmount float64
}

// OrderItem is a single line item within an order.
type OrderItem struct {
	ProductID string
	Quantity  int
	Price     float64
}

// ValidationResult holds the outcome of validating an order.
// Errors is empty iff Valid is true.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// InventoryStatus is the availability outcome of an inventory check.
type InventoryStatus string

const (
	InventoryAvailable         InventoryStatus = "AVAILABLE"
	InventoryOutOfStock        InventoryStatus = "OUT_OF_STOCK"
	InventoryInsufficientStock InventoryStatus = "INSUFFICIENT_STOCK"
	InventoryError             InventoryStatus = "ERROR"
)

// InventoryRequest asks to reserve a quantity of a product for an order.
type InventoryRequest struct {
	OrderID   string
	ProductID string
	Quantity  int
}

// InventoryOutcome reports the result of an inventory reservation attempt.
// ReservationID and ReservedQuantity are set only when Status is AVAILABLE;
// UnavailabilityReason only when it is not.
type InventoryOutcome struct {
	Status               InventoryStatus
	ReservationID        string
	ReservedQuantity     int
	StockLevel           int
	UnavailabilityReason string
}

// Available reports whether the reservation succeeded.
func (o InventoryOutcome) Available() bool {
	return o.Status == InventoryAvailable
}

// PaymentStatus is the outcome of a payment authorization.
type PaymentStatus string

const (
	PaymentApproved PaymentStatus = "APPROVED"
	PaymentDeclined PaymentStatus = "DECLINED"
)

// Payment decline codes.
const (
	DeclineLimitExceeded    = "DECLINED_LIMIT_EXCEEDED"
	DeclineGatewayTimeout   = "GATEWAY_TIMEOUT"
	DeclineInsufficientFund = "INSUFFICIENT_FUNDS"
	DeclineCardDeclined     = "CARD_DECLINED"
)

// Payment methods, selected by amount tier.
const (
	MethodBankTransfer = "BANK_TRANSFER"
	MethodCreditCard   = "CREDIT_CARD"
	MethodDebitCard    = "DEBIT_CARD"
)

// PaymentRequest asks to authorize a charge for an order.
type PaymentRequest struct {
	OrderID     string
	CustomerID  string
	TotalAmount float64
}

// PaymentOutcome reports the result of a payment authorization attempt.
type PaymentOutcome struct {
	Status        PaymentStatus
	TransactionID string
	PaymentMethod string
	ErrorCode     string
	ErrorMessage  string
}

// Approved reports whether the charge was authorized.
func (o PaymentOutcome) Approved() bool {
	return o.Status == PaymentApproved
}

// NotificationType identifies the customer-facing message to send.
type NotificationType string

const (
	NotificationOrderConfirmation    NotificationType = "ORDER_CONFIRMATION"
	NotificationOrderFailed          NotificationType = "ORDER_FAILED"
	NotificationPaymentFailed        NotificationType = "PAYMENT_FAILED"
	NotificationInventoryUnavailable NotificationType = "INVENTORY_UNAVAILABLE"
	NotificationOrderCancelled       NotificationType = "ORDER_CANCELLED"
	NotificationOrderShipped         NotificationType = "ORDER_SHIPPED"
	NotificationOrderDelivered       NotificationType = "ORDER_DELIVERED"
)

// NotificationStatus is the delivery outcome of a notification.
type NotificationStatus string

const (
	NotificationSent            NotificationStatus = "SENT"
	NotificationFailedRetryable NotificationStatus = "FAILED_RETRYABLE"
	NotificationFailedPermanent NotificationStatus = "FAILED_PERMANENT"
)

// Notification channels.
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
	ChannelPush  = "push"
)

// NotificationRequest asks to notify a customer about an order.
// OrderStatus is only used for message content when Type has no
// dedicated template.
type NotificationRequest struct {
	OrderID          string
	CustomerID       string
	Type             NotificationType
	PreferredChannel string
	OrderStatus      string
}

// NotificationOutcome reports the result of a notification delivery attempt.
// Channel is the resolved delivery channel, which may differ from the
// preferred one after fallback.
type NotificationOutcome struct {
	Status         NotificationStatus
	NotificationID string
	Channel        string
	SentAt         time.Time
	MessagePreview string
	Error          string
	Retryable      bool
}

// Sent reports whether the notification was delivered.
func (o NotificationOutcome) Sent() bool {
	return o.Status == NotificationSent
}

// WorkflowState identifies a state of the order fulfillment state machine.
type WorkflowState string

const (
	StateValidating         WorkflowState = "Validating"
	StateValidationFailed   WorkflowState = "ValidationFailed"
	StateParallelProcessing WorkflowState = "ParallelProcessing"
	StateJoinFailed         WorkflowState = "JoinFailed"
	StateJoinSucceeded      WorkflowState = "JoinSucceeded"
	StateNotifying          WorkflowState = "Notifying"
	StateCompleted          WorkflowState = "Completed"
)

// StepRecord is one entry in a workflow execution's history.
type StepRecord struct {
	Step   string
	State  WorkflowState
	Detail string
	At     time.Time
}

// WorkflowExecution is the full record of one order's trip through the
// workflow: current state, per-step outcomes, and transition history.
// It is mutated only by the workflow and is final once State is Completed.
type WorkflowExecution struct {
	Order         Order
	State         WorkflowState
	History       []StepRecord
	Validation    *ValidationResult
	Inventory     *InventoryOutcome
	Payment       *PaymentOutcome
	Notification  *NotificationOutcome
	Succeeded     bool
	FailureReason string
}
