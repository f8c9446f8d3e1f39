// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizerService はユーザー入力のテキスト項目（タスクのタイトル・内容、
// カテゴリ名など）をサニタイズし、格納型XSSからユーザーを保護する。
// bluemondayライブラリのStrictPolicyを使用し、HTMLタグを一切許可しない。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizerService はプレーンテキスト項目のサニタイズ機能のインターフェースを定義する。
// タスク・カテゴリの保存前に使用される。
type TextSanitizerService interface {
	// Sanitize は入力文字列から全てのHTMLタグを除去したテキストを返す。
	// タグ除去後のHTMLエンティティは元の文字に復元される
	// （「A & B」のような通常のテキストが壊れないようにするため）。
	// 前後の空白は取り除かれる。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// textSanitizer はTextSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyは許可タグを持たないため、scriptタグはもちろん
// あらゆるHTMLマークアップがテキストから除去される。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力文字列からHTMLタグを除去したテキストを返す。
func (s *textSanitizer) Sanitize(raw string) string {
	cleaned := s.policy.Sanitize(raw)
	// bluemondayは残存テキストをエスケープして返すため、
	// プレーンテキストとして保存する前にエンティティを戻す。
	return strings.TrimSpace(html.UnescapeString(cleaned))
}
