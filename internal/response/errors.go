package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrPermissionDenied ErrCode = "PERMISSION_DENIED"
	ErrAdminAccessOnly  ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation ErrCode = "VALIDATION_ERROR"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Import ────────────────────────────────────────────────────────
	ErrImportInProgress ErrCode = "IMPORT_IN_PROGRESS"
	ErrImportFailed     ErrCode = "IMPORT_FAILED"
	ErrNoImportReport   ErrCode = "NO_IMPORT_REPORT"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "帳號或密碼錯誤。"
	case ErrTokenRequired:
		return "需要身份驗證令牌。"
	case ErrTokenInvalid:
		return "身份驗證令牌無效或已過期。"

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrPermissionDenied:
		return "權限不足。"
	case ErrAdminAccessOnly:
		return "此資源僅限管理員存取。"

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "驗證失敗，請檢查輸入內容。"

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "找不到資源。"

	// ─── Import ────────────────────────────────────────────────────────
	case ErrImportInProgress:
		return "已有導入作業正在執行，請稍後再試。"
	case ErrImportFailed:
		return "導入過程中發生錯誤，詳情請查看報告。"
	case ErrNoImportReport:
		return "尚未有任何導入報告。"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "請求過於頻繁，請稍後再試。"

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "伺服器內部錯誤。"
	default:
		return "發生未預期的錯誤。"
	}
}
