package repository

// 常见仓储错误
var (
	ErrEntityNotFound      = &RepositoryError{Code: "ENTITY_NOT_FOUND", Message: "entity not found"}
	ErrEntityAlreadyExists = &RepositoryError{Code: "ENTITY_ALREADY_EXISTS", Message: "entity already exists"}
	ErrInvalidID           = &RepositoryError{Code: "INVALID_ID", Message: "invalid entity id"}
)

// RepositoryError 仓储错误
type RepositoryError struct {
	Code     string
	Message  string
	EntityID any
	Cause    error
}

func (e *RepositoryError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RepositoryError) Unwrap() error {
	return e.Cause
}

// Is 支持 errors.Is 按错误码匹配哨兵错误
func (e *RepositoryError) Is(target error) bool {
	if repoErr, ok := target.(*RepositoryError); ok {
		return e.Code == repoErr.Code
	}
	return false
}

// NewNotFoundError 创建带上下文的未找到错误
func NewNotFoundError(entityID any) *RepositoryError {
	return &RepositoryError{
		Code:     "ENTITY_NOT_FOUND",
		Message:  "entity not found",
		EntityID: entityID,
	}
}
