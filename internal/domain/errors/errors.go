package errors

import (
	"net/http"

	"ministry/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

func (e *BaseError) Error() string {
	if e.details != "" {
		return e.message + ": " + e.details
	}

	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

func (e *BaseError) Message() string {
	return e.message
}

func (e *BaseError) Details() string {
	return e.details
}

// Is matches any BaseError carrying the same business code, so copies made by WithDetails
// still satisfy errors.Is against the predefined value.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return t.errorCode == e.errorCode
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Users and authentication
	ErrUserNotFound           = NewBaseError(http.StatusNotFound, "USER_NOT_FOUND", "User not found", "")
	ErrUserAlreadyExists      = NewBaseError(http.StatusConflict, "USER_ALREADY_EXISTS", "Email or phone number is already registered", "")
	ErrInvalidCredentials     = NewBaseError(http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid login or password", "")
	ErrUnauthorized           = NewBaseError(http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", "")
	ErrAccountNotVerified     = NewBaseError(http.StatusForbidden, "ACCOUNT_NOT_VERIFIED", "Account has not been verified", "")
	ErrAccountSuspended       = NewBaseError(http.StatusForbidden, "ACCOUNT_SUSPENDED", "Account is suspended", "")
	ErrAccountAlreadyVerified = NewBaseError(http.StatusConflict, "ACCOUNT_ALREADY_VERIFIED", "Account is already verified", "")
	ErrOTPInvalid             = NewBaseError(http.StatusUnprocessableEntity, "OTP_INVALID", "Invalid or expired OTP", "")
	ErrOTPCooldown            = NewBaseError(http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "Please wait before requesting another OTP", "")
	ErrRefreshTokenInvalid    = NewBaseError(http.StatusUnauthorized, "REFRESH_TOKEN_INVALID", "Invalid or expired refresh token", "")
	ErrPasswordHashFailed     = NewBaseError(http.StatusInternalServerError, "PASSWORD_HASH_FAILED", "Password processing failed", "")

	// Roles, permissions and departments
	ErrRoleNotFound             = NewBaseError(http.StatusNotFound, "ROLE_NOT_FOUND", "Role not found", "")
	ErrRoleAlreadyExists        = NewBaseError(http.StatusConflict, "ROLE_ALREADY_EXISTS", "Role already exists", "")
	ErrSystemRoleProtected      = NewBaseError(http.StatusConflict, "SYSTEM_ROLE_PROTECTED", "System roles cannot be deleted", "")
	ErrPermissionNotFound       = NewBaseError(http.StatusNotFound, "PERMISSION_NOT_FOUND", "Permission not found", "")
	ErrPermissionAlreadyExists  = NewBaseError(http.StatusConflict, "PERMISSION_ALREADY_EXISTS", "Permission already exists", "")
	ErrDepartmentNotFound       = NewBaseError(http.StatusNotFound, "DEPARTMENT_NOT_FOUND", "Department not found", "")
	ErrDepartmentAlreadyExists  = NewBaseError(http.StatusConflict, "DEPARTMENT_ALREADY_EXISTS", "Department already exists", "")
	ErrCountryNotFound          = NewBaseError(http.StatusNotFound, "COUNTRY_NOT_FOUND", "Country not found", "")
	ErrPaymentMethodUnavailable = NewBaseError(http.StatusUnprocessableEntity, "PAYMENT_METHOD_UNAVAILABLE", "Payment method is not available", "")

	// Addresses
	ErrAddressNotFound      = NewBaseError(http.StatusNotFound, "ADDRESS_NOT_FOUND", "Address not found", "")
	ErrDefaultAddressDelete = NewBaseError(http.StatusUnprocessableEntity, "DEFAULT_ADDRESS_DELETE", "The default address cannot be deleted", "")

	// Catalog
	ErrCategoryNotFound         = NewBaseError(http.StatusNotFound, "CATEGORY_NOT_FOUND", "Category not found", "")
	ErrCategoryAlreadyExists    = NewBaseError(http.StatusConflict, "CATEGORY_ALREADY_EXISTS", "Category slug already exists", "")
	ErrCategoryInUse            = NewBaseError(http.StatusConflict, "CATEGORY_IN_USE", "Category still has products", "")
	ErrAttributeNotFound        = NewBaseError(http.StatusNotFound, "ATTRIBUTE_NOT_FOUND", "Attribute not found", "")
	ErrAttributeAlreadyExists   = NewBaseError(http.StatusConflict, "ATTRIBUTE_ALREADY_EXISTS", "Attribute already exists", "")
	ErrAttributeValueNotFound   = NewBaseError(http.StatusNotFound, "ATTRIBUTE_VALUE_NOT_FOUND", "Attribute value not found", "")
	ErrProductNotFound          = NewBaseError(http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", "")
	ErrProductAlreadyExists     = NewBaseError(http.StatusConflict, "PRODUCT_ALREADY_EXISTS", "Product slug or SKU already exists", "")
	ErrProductUnavailable       = NewBaseError(http.StatusUnprocessableEntity, "PRODUCT_UNAVAILABLE", "Product is not available", "")
	ErrVariantNotFound          = NewBaseError(http.StatusNotFound, "VARIANT_NOT_FOUND", "Variant not found", "")
	ErrVariantAlreadyExists     = NewBaseError(http.StatusConflict, "VARIANT_ALREADY_EXISTS", "Variant SKU already exists", "")
	ErrVariantCombinationExists = NewBaseError(http.StatusConflict, "VARIANT_COMBINATION_EXISTS", "A variant with these attribute values already exists", "")
	ErrInsufficientStock        = NewBaseError(http.StatusConflict, "INSUFFICIENT_STOCK", "Insufficient stock", "")

	// Cart and orders
	ErrCartItemNotFound        = NewBaseError(http.StatusNotFound, "CART_ITEM_NOT_FOUND", "Cart item not found", "")
	ErrCartEmpty               = NewBaseError(http.StatusUnprocessableEntity, "CART_EMPTY", "Cart is empty", "")
	ErrOrderNotFound           = NewBaseError(http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", "")
	ErrInvalidStatusTransition = NewBaseError(http.StatusConflict, "INVALID_STATUS_TRANSITION", "Status transition is not allowed", "")
	ErrShipmentNotFound        = NewBaseError(http.StatusNotFound, "SHIPMENT_NOT_FOUND", "Shipment not found", "")
	ErrTransactionNotFound     = NewBaseError(http.StatusNotFound, "TRANSACTION_NOT_FOUND", "Transaction not found", "")

	// Payments and refunds
	ErrPaymentGateway          = NewBaseError(http.StatusBadGateway, "PAYMENT_GATEWAY_ERROR", "Payment gateway request failed", "")
	ErrPaymentNotVerified      = NewBaseError(http.StatusUnprocessableEntity, "PAYMENT_NOT_VERIFIED", "Payment could not be verified", "")
	ErrInvalidWebhookSignature = NewBaseError(http.StatusUnauthorized, "INVALID_WEBHOOK_SIGNATURE", "Invalid webhook signature", "")
	ErrRefundNotFound          = NewBaseError(http.StatusNotFound, "REFUND_NOT_FOUND", "Refund not found", "")
	ErrRefundExceedsAmount     = NewBaseError(http.StatusUnprocessableEntity, "REFUND_EXCEEDS_AMOUNT", "Refund exceeds the refundable amount", "")
	ErrRefundItemExceeds       = NewBaseError(http.StatusUnprocessableEntity, "REFUND_ITEM_QUANTITY_EXCEEDED", "Refund quantity exceeds the refundable quantity", "")
	ErrRefundNotAllowed        = NewBaseError(http.StatusConflict, "REFUND_NOT_ALLOWED", "Order is not eligible for a refund", "")
	ErrRefundAlreadyProcessed  = NewBaseError(http.StatusConflict, "REFUND_ALREADY_PROCESSED", "Refund has already been processed", "")

	// Donations
	ErrDonationCategoryNotFound      = NewBaseError(http.StatusNotFound, "DONATION_CATEGORY_NOT_FOUND", "Donation category not found", "")
	ErrDonationCategoryAlreadyExists = NewBaseError(http.StatusConflict, "DONATION_CATEGORY_ALREADY_EXISTS", "Donation category already exists", "")
	ErrCampaignNotFound              = NewBaseError(http.StatusNotFound, "CAMPAIGN_NOT_FOUND", "Campaign not found", "")
	ErrCampaignAlreadyExists         = NewBaseError(http.StatusConflict, "CAMPAIGN_ALREADY_EXISTS", "Campaign slug already exists", "")
	ErrCampaignClosed                = NewBaseError(http.StatusConflict, "CAMPAIGN_CLOSED", "Campaign is not accepting donations", "")
	ErrCampaignHasDonations          = NewBaseError(http.StatusConflict, "CAMPAIGN_HAS_DONATIONS", "Campaign has completed donations", "")
	ErrDonationNotFound              = NewBaseError(http.StatusNotFound, "DONATION_NOT_FOUND", "Donation not found", "")

	// Events and tickets
	ErrEventNotFound           = NewBaseError(http.StatusNotFound, "EVENT_NOT_FOUND", "Event not found", "")
	ErrEventAlreadyExists      = NewBaseError(http.StatusConflict, "EVENT_ALREADY_EXISTS", "Event slug already exists", "")
	ErrEventHasSales           = NewBaseError(http.StatusConflict, "EVENT_HAS_SALES", "Event has sold tickets", "")
	ErrTicketTypeNotFound      = NewBaseError(http.StatusNotFound, "TICKET_TYPE_NOT_FOUND", "Ticket type not found", "")
	ErrTicketTypeHasSales      = NewBaseError(http.StatusConflict, "TICKET_TYPE_HAS_SALES", "Ticket type has sold tickets", "")
	ErrTicketQuantityBelowSold = NewBaseError(http.StatusUnprocessableEntity, "TICKET_QUANTITY_BELOW_SOLD", "Ticket quantity cannot be lower than the sold count", "")
	ErrTicketsUnavailable      = NewBaseError(http.StatusConflict, "TICKETS_UNAVAILABLE", "Tickets are not available", "")
	ErrTicketLimitExceeded     = NewBaseError(http.StatusUnprocessableEntity, "TICKET_LIMIT_EXCEEDED", "Too many tickets requested in one order", "")
	ErrTicketOrderNotFound     = NewBaseError(http.StatusNotFound, "TICKET_ORDER_NOT_FOUND", "Ticket order not found", "")
	ErrTicketNotPaid           = NewBaseError(http.StatusConflict, "TICKET_NOT_PAID", "Ticket order is not paid", "")
	ErrTicketAlreadyUsed       = NewBaseError(http.StatusConflict, "TICKET_ALREADY_USED", "Ticket has already been used", "")
	ErrInvalidTicketQR         = NewBaseError(http.StatusUnprocessableEntity, "INVALID_TICKET_QR", "Invalid ticket QR code", "")

	// Content
	ErrNewsNotFound           = NewBaseError(http.StatusNotFound, "NEWS_NOT_FOUND", "News not found", "")
	ErrBlogNotFound           = NewBaseError(http.StatusNotFound, "BLOG_NOT_FOUND", "Blog post not found", "")
	ErrMusicNotFound          = NewBaseError(http.StatusNotFound, "MUSIC_NOT_FOUND", "Music not found", "")
	ErrSliderNotFound         = NewBaseError(http.StatusNotFound, "SLIDER_NOT_FOUND", "Slider not found", "")
	ErrAboutUsNotFound        = NewBaseError(http.StatusNotFound, "ABOUT_US_NOT_FOUND", "About us has not been set up", "")
	ErrContactMessageNotFound = NewBaseError(http.StatusNotFound, "CONTACT_MESSAGE_NOT_FOUND", "Contact message not found", "")
	ErrUserMessageNotFound    = NewBaseError(http.StatusNotFound, "USER_MESSAGE_NOT_FOUND", "Message not found", "")
	ErrSlugAlreadyExists      = NewBaseError(http.StatusConflict, "SLUG_ALREADY_EXISTS", "Slug already exists", "")

	// Devices and media
	ErrDeviceNotFound    = NewBaseError(http.StatusNotFound, "DEVICE_NOT_FOUND", "Device not found", "")
	ErrInvalidImage      = NewBaseError(http.StatusUnprocessableEntity, "INVALID_IMAGE", "Uploaded file is not a valid image", "")
	ErrInvalidFileType   = NewBaseError(http.StatusUnprocessableEntity, "INVALID_FILE_TYPE", "Uploaded file type is not allowed", "")
	ErrStorageFailed     = NewBaseError(http.StatusInternalServerError, "STORAGE_FAILED", "File storage failed", "")
	ErrReportNotFound    = NewBaseError(http.StatusNotFound, "REPORT_NOT_FOUND", "Unknown report type", "")
	ErrReportRenderFails = NewBaseError(http.StatusInternalServerError, "REPORT_RENDER_FAILED", "Report rendering failed", "")

	// General errors
	ErrValidationFailed  = NewBaseError(http.StatusUnprocessableEntity, "VALIDATION_FAILED", "The given data was invalid", "")
	ErrTransactionFailed = NewBaseError(http.StatusInternalServerError, "TRANSACTION_FAILED", "Database transaction failed", "")
	ErrInternalError     = NewBaseError(http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", "")
	ErrForbidden         = NewBaseError(http.StatusForbidden, "FORBIDDEN", "Access denied", "")
	ErrNotFound          = NewBaseError(http.StatusNotFound, "NOT_FOUND", "Resource not found", "")
	ErrConflict          = NewBaseError(http.StatusConflict, "CONFLICT", "Resource conflict", "")
	ErrInvalidAPIKey     = NewBaseError(http.StatusUnauthorized, "INVALID_API_KEY", "Invalid API key", "")
	ErrTooManyRequests   = NewBaseError(http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "Rate limit exceeded", "")
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

func (e *DatabaseExecuteError) Unwrap() error {
	return e.err
}

func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

func (e *DatabaseExecuteError) Message() string {
	return "Database execution failed"
}

func (e *DatabaseExecuteError) Details() string {
	return e.details
}
