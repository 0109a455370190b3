// Package ports - UnitOfWork паттерн для управления транзакциями.
//
// Pattern: Unit of Work
// - Один UnitOfWork = одна БД-транзакция
// - Автоматический rollback при ошибке
package ports

import "context"

// UnitOfWork определяет контракт для управления транзакциями.
//
// Пример использования:
//
//	err := uow.Execute(ctx, func(txCtx context.Context) error {
//	    if err := dealRepo.Save(txCtx, deal); err != nil {
//	        return err // Автоматический rollback
//	    }
//	    return publisher.Publish(txCtx, events.NewDealCreated(...))
//	})
type UnitOfWork interface {
	// Execute выполняет функцию внутри транзакции.
	// Переданный в fn context содержит транзакцию - все операции внутри
	// должны использовать именно его.
	Execute(ctx context.Context, fn func(context.Context) error) error

	// ExecuteWithResult аналогичен Execute, но возвращает результат.
	ExecuteWithResult(ctx context.Context, fn func(context.Context) (interface{}, error)) (interface{}, error)
}
