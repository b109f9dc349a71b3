package apperr

var (
	ErrUserNotFound       = NotFound("user not found")
	ErrRoomNotFound       = NotFound("room not found")
	ErrRequestNotFound    = NotFound("connection request not found or already processed")
	ErrSelfTarget         = InvalidArg("cannot target yourself")
	ErrEmptyContent       = InvalidArg("message content is required")
	ErrMissingUserID      = InvalidArg("user_id is required")
	ErrMissingRecipient   = InvalidArg("recipientId is required")
	ErrNotRoomMember      = InvalidArg("sender is not a member of this room")
	ErrNotConnected       = Forbidden("you must be connected with this user to chat")
	ErrAccessDenied       = Forbidden("access denied")
	ErrRequestPending     = InvalidArg("connection request already pending")
	ErrAlreadyConnected   = InvalidArg("already connected")
	ErrEmailTaken         = Conflict("email or username already registered")
	ErrInvalidCredentials = Unauthorized("invalid credentials")
)
