package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
// 条件更新（version 或期望的前置状态）未命中任何行时返回
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")
