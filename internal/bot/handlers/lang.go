package handlers

import (
	"context"

	"github.com/edgard/kirokubot/internal/parser"
)

// resolveLang picks the response language for command replies: the
// persisted preference when one exists, otherwise Japanese. Free-form
// messages resolve their language inside the agent instead.
func resolveLang(ctx context.Context, deps HandlerDeps, userID int64) parser.Language {
	pref, err := deps.Store.GetUserPref(ctx, userID)
	if err != nil || pref == nil {
		return parser.Japanese
	}
	if lang := parser.Language(pref.Language); lang.IsValid() {
		return lang
	}
	return parser.Japanese
}
