package apperr

import "net/http"

type Code string

const (
	CodeUnknown          Code = "UNKNOWN"
	CodeInvalidArgument  Code = "INVALID_ARGUMENT"
	CodeNotFound         Code = "NOT_FOUND"
	CodePermissionDenied Code = "PERMISSION_DENIED"
	CodeConflict         Code = "CONFLICT"
	CodeUnauthenticated  Code = "UNAUTHENTICATED"
	CodeInternal         Code = "INTERNAL"
)

var httpStatus = map[Code]int{
	CodeInvalidArgument:  http.StatusBadRequest,
	CodeNotFound:         http.StatusNotFound,
	CodePermissionDenied: http.StatusForbidden,
	CodeConflict:         http.StatusConflict,
	CodeUnauthenticated:  http.StatusUnauthorized,
	CodeInternal:         http.StatusInternalServerError,
	CodeUnknown:          http.StatusInternalServerError,
}
