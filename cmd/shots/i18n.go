// Package main provides localization for the shots CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Target":     "対象",
		"Comparison": "比較",
		"Output":     "出力先",
		"Browser":    "ブラウザ設定",
		"Behaviour":  "動作",
		"Debug":      "デバッグ",

		// Root command
		"Visual regression testing for web pages":                                                                                      "Webページのビジュアルリグレッションテスト",
		"shots captures screenshots of web pages across viewports, compares them with approved baselines and reports the differences.": "shotsはWebページのスクリーンショットを複数のビューポートで撮影し、承認済みのベースラインと比較して差分を報告します。",

		// Commands
		"Take baseline shots":                                                              "ベースラインのショットを撮影",
		"Capture every case at every viewport into the baseline directory.":                "すべてのケースをすべてのビューポートで撮影し、ベースラインディレクトリに保存します。",
		"Run regression tests against the baseline":                                        "ベースラインに対してリグレッションテストを実行",
		"Capture current shots and compare them with the baseline shots.":                  "現在のショットを撮影し、ベースラインのショットと比較します。",
		"Approve current shots as the new baseline":                                        "現在のショットを新しいベースラインとして承認",
		"Copy current shots over the baseline. Use --name to approve selected cases only.": "現在のショットをベースラインに上書きコピーします。--name で承認するケースを選択できます。",

		// Target flags
		"Base URL the case paths are resolved against": "ケースのパスを解決するベースURL",
		"Test case as name=path (repeatable)":          "テストケース（name=path 形式、複数指定可）",
		"Viewports as WxH[,WxH...]":                    "ビューポート（WxH[,WxH...] 形式）",
		"Serve this directory locally while capturing": "撮影中にこのディレクトリをローカルで配信",
		"Port of the local server":                     "ローカルサーバーのポート",

		// Comparison flags
		"Per-pixel color distance tolerance (0-1)":     "ピクセルごとの色差の許容値（0-1）",
		"Approve only shots of this case (repeatable)": "このケースのショットのみ承認（複数指定可）",

		// Output flags
		"Directory holding base/ and current/ shots": "base/ と current/ のショットを置くディレクトリ",
		"Baseline shots directory":                   "ベースラインのショットのディレクトリ",
		"Current shots directory":                    "現在のショットのディレクトリ",
		"Write a Markdown report to this path":       "Markdownレポートの出力先",

		// Browser flags
		"Rendering engine (chrome, playwright)":         "レンダリングエンジン（chrome, playwright）",
		"Path to Chrome executable":                     "Chrome実行ファイルのパス",
		"Capture the viewport instead of the full page": "ページ全体ではなくビューポートのみを撮影",
		"Run browser in non-headless mode":              "ブラウザを非ヘッドレスモードで実行",
		"Disable incognito mode":                        "シークレットモードを無効化",
		"Ignore HTTPS certificate errors":               "HTTPS証明書エラーを無視",
		"HTTP proxy server (e.g., http://proxy:8080)":   "HTTPプロキシサーバー（例: http://proxy:8080）",
		"Download Playwright browsers on first use":     "初回使用時にPlaywrightのブラウザをダウンロード",

		// Behaviour flags
		"Config file path":                                    "設定ファイルのパス",
		"Log level (trace, debug, info, warn, error, silent)": "ログレベル（trace, debug, info, warn, error, silent）",
		"Exit with status 1 when shots fail":                  "ショットが失敗した場合にステータス1で終了",
		"Enable debug output":                                 "デバッグ出力を有効化",
		"Directory for debug output":                          "デバッグ出力のディレクトリ",

		// Report
		"Visual Regression Report": "ビジュアルリグレッションレポート",
		"Passed":                   "成功",
		"Failed":                   "失敗",
		"Item":                     "項目",
		"Value":                    "値",
		"Status":                   "ステータス",
		"URL":                      "URL",
		"Threshold":                "しきい値",
		"Engine":                   "エンジン",
		"Viewports":                "ビューポート",
		"Total / Passes / Fails":   "合計 / 成功 / 失敗",
		"Shots":                    "ショット",
		"No shots were taken.":     "ショットは撮影されませんでした。",
		"Shot":                     "ショット",
		"Viewport":                 "ビューポート",
		"Bad pixels":               "不一致ピクセル",
		"Diff":                     "差分",
		"Differences":              "差分一覧",
		"Generated at %s":          "%s に生成",
	})
}
