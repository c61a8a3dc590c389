// Package storage 提供按整文件读写的 JSON 记录存储。
// 每个 Store 绑定一个文件，Load 整体读入，Save 整体覆盖写回（临时文件 + rename）。
package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"k8s.io/klog/v2"
)

// Store 泛型 JSON 记录存储
// rootKey 非空时记录集合嵌套在该顶层键下（如 prompts 文件的 {"prompts": {...}}）
type Store[T any] struct {
	path    string
	rootKey string
}

// NewStore 创建绑定到 path 的存储，rootKey 传空串表示记录直接位于文档顶层
func NewStore[T any](path, rootKey string) *Store[T] {
	return &Store[T]{path: path, rootKey: rootKey}
}

// Path 返回存储文件路径
func (s *Store[T]) Path() string {
	return s.path
}

// Load 读取全部记录
// 文件不存在返回空集合；文件损坏记录日志并返回空集合，不向上抛错
func (s *Store[T]) Load() map[string]T {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			klog.Errorf("读取存储文件失败: path=%s, err=%v", s.path, err)
		}
		return map[string]T{}
	}

	records := map[string]T{}
	if s.rootKey == "" {
		if err := json.Unmarshal(data, &records); err != nil {
			klog.Errorf("解析存储文件失败: path=%s, err=%v", s.path, err)
			return map[string]T{}
		}
		return records
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		klog.Errorf("解析存储文件失败: path=%s, err=%v", s.path, err)
		return map[string]T{}
	}
	raw, ok := doc[s.rootKey]
	if !ok {
		return map[string]T{}
	}
	if err := json.Unmarshal(raw, &records); err != nil {
		klog.Errorf("解析存储文件失败: path=%s, key=%s, err=%v", s.path, s.rootKey, err)
		return map[string]T{}
	}
	return records
}

// Save 序列化全部记录并覆盖写入
// 先写同目录临时文件再 rename，避免写中途崩溃截断原文件；失败记录日志并返回 false
func (s *Store[T]) Save(records map[string]T) bool {
	var payload any = records
	if s.rootKey != "" {
		payload = map[string]any{s.rootKey: records}
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		klog.Errorf("序列化存储数据失败: path=%s, err=%v", s.path, err)
		return false
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		klog.Errorf("创建存储目录失败: dir=%s, err=%v", dir, err)
		return false
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		klog.Errorf("创建临时文件失败: path=%s, err=%v", s.path, err)
		return false
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		klog.Errorf("写入临时文件失败: path=%s, err=%v", tmpName, err)
		return false
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		klog.Errorf("关闭临时文件失败: path=%s, err=%v", tmpName, err)
		return false
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		klog.Errorf("替换存储文件失败: path=%s, err=%v", s.path, err)
		return false
	}
	return true
}

// Exists 检查存储文件是否存在
func (s *Store[T]) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Delete 删除存储文件，文件不存在视为成功
func (s *Store[T]) Delete() bool {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		klog.Errorf("删除存储文件失败: path=%s, err=%v", s.path, err)
		return false
	}
	return true
}
