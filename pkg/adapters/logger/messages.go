package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Operations
		"Taking baseline shots...":      "ベースラインのショットを撮影中...",
		"Running regression tests...":   "リグレッションテストを実行中...",
		"Approving shots...":            "ショットを承認中...",
		"Interrupted, shutting down...": "中断されました。シャットダウン中...",

		// Server
		"Serving %s at %s":                      "%s を %s で配信中",
		"Static server stopped":                 "静的サーバーを停止しました",
		"Static server stopped unexpectedly: %s": "静的サーバーが予期せず停止しました: %s",

		// Capture
		"Capturing %d shots (%d cases x %d viewports)": "%d ショットを撮影中 (%d ケース x %d ビューポート)",
		"Opening session for %s":                       "%s のセッションを開いています",
		"Saved shot to %s":                             "ショットを %s に保存しました",
		"Session closed for %s":                        "%s のセッションを閉じました",

		// Compare
		"Comparing %d shots":                    "%d ショットを比較中",
		"%s failed: %s":                         "%s が失敗しました: %s",
		"%s matches baseline":                   "%s はベースラインと一致しました",
		"%s differs from baseline by %d pixels": "%s はベースラインと %d ピクセル異なります",
		"Saved diff to %s":                      "差分を %s に保存しました",
		"Failed to remove stale diff %s: %s":    "古い差分 %s の削除に失敗しました: %s",

		// Approve
		"%s approved":                   "%s を承認しました",
		"Failed to approve %s: %s":      "%s の承認に失敗しました: %s",
		"[ok] All shots approved!":      "[ok] すべてのショットを承認しました!",
		"No shots matched for approval": "承認対象のショットがありません",

		// Results
		"Baseline shots":     "ベースラインのショット",
		"Test cases":         "テストケース",
		"Task":               "タスク",
		"passed! :)":         "成功しました! :)",
		"complete! :)":       "完了しました! :)",
		"failed... :(":       "失敗しました... :(",
		"RESULTS:":           "結果:",
		"TOTAL: %d":          "合計: %d",
		"PASSES: %d":         "成功: %d",
		"FAILS: %d":          "失敗: %d",
		"Report saved to %s": "レポートを %s に保存しました",

		// Errors
		"%s error: %+v":                    "%s エラー: %+v",
		"Failed to stop static server: %s": "静的サーバーの停止に失敗しました: %s",
		"Failed to write debug output: %s": "デバッグ出力の書き込みに失敗しました: %s",
		"Failed to write report: %s":       "レポートの書き込みに失敗しました: %s",
	})
}
