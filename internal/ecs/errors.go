package ecs

import "errors"

var (
	// ErrComponentNotFound - у сущности нет компонента этого вида. Восстановимо.
	ErrComponentNotFound = errors.New("component not found")
	// ErrEntityNotFound - сущность не существует (или уже удалена Flush).
	ErrEntityNotFound = errors.New("entity does not exist")
	// ErrDuplicateComponent - попытка прикрепить второй экземпляр того же вида.
	ErrDuplicateComponent = errors.New("duplicate component attach")
	// ErrEntityExists - восстановление поверх существующего ID.
	ErrEntityExists = errors.New("entity already exists")
)
