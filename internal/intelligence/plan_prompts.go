package intelligence

import (
	"bytes"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
)

// Locale selects the language of the plan prompt and user-facing messages.
type Locale string

const (
	LocaleEnglish  Locale = "en"
	LocaleJapanese Locale = "ja"
)

// ParseLocale normalizes s, falling back to English for unknown values.
func ParseLocale(s string) Locale {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ja", "ja-jp", "japanese":
		return LocaleJapanese
	default:
		return LocaleEnglish
	}
}

// Messages are the fixed user-facing strings for one locale.
type Messages struct {
	NameRequired    string
	ProviderFailure string
	TransportFailed string
	InvalidBody     string
	Connected       string
}

var messages = map[Locale]Messages{
	LocaleEnglish: {
		NameRequired:    "exam/qualification name is required.",
		ProviderFailure: "Failed to get a response from the AI.",
		TransportFailed: "Could not reach the study plan server.",
		InvalidBody:     "invalid request body",
		Connected:       "Connected to the study plan gateway.",
	},
	LocaleJapanese: {
		NameRequired:    "資格名が指定されていません。",
		ProviderFailure: "AIからの応答取得に失敗しました。",
		TransportFailed: "エラーが発生しました",
		InvalidBody:     "リクエストの形式が正しくありません。",
		Connected:       "バックエンドとの接続に成功しました！",
	},
}

// MessagesFor returns the message set for locale.
func MessagesFor(locale Locale) Messages {
	if m, ok := messages[locale]; ok {
		return m
	}
	return messages[LocaleEnglish]
}

const planPromptEN = `You are a professional study planner. Create a realistic, detailed week-by-week study plan for passing "{{.Name}}".

# Conditions
- Exam / qualification: {{.Name}}
- Exam date: {{.TargetDate}} (about {{.Days}} days from today)
- Estimated total study time: {{.TotalHours}} hours
- Average study time per day: {{.DailyHours}} hours
- Weak areas to focus on: {{.WeakAreas}}
- Plan the period from today until the exam date.

# Output format
- Split the whole plan into several named phases (for example: foundations, applied practice, final review).
- For each week, give a "study theme", "concrete study activities" and a "weekly target hours".
- Allocate more time to the weak areas.
- Return the result as well-structured Markdown.

Now create the best possible study plan!`

const planPromptJA = `あなたはプロの学習プランナーです。「{{.Name}}」の合格に向けた、現実的で詳細な学習計画を週単位で作成してください。

# 条件
- 資格名: {{.Name}}
- 試験日: {{.TargetDate}} (今日から約{{.Days}}日後)
- 想定総学習時間: {{.TotalHours}}時間
- 1日の平均勉強時間: {{.DailyHours}}時間
- 特に重点的に学習したい苦手分野: {{.WeakAreas}}
- 今日から試験日までの期間で計画を作成してください。

# 出力形式
- 全体をいくつかのフェーズ（例：基礎固め期、応用力養成期、直前期）に分けてください。
- 各週ごとに「学習テーマ」「具体的な学習内容」「週の目標時間」を具体的に示してください。
- 苦手分野にはより多くの時間を割り当ててください。
- マークダウン形式で、見やすく整形して出力してください。

さあ、最高の学習計画を作成してください！`

var planTemplates = map[Locale]*template.Template{
	LocaleEnglish:  template.Must(template.New("plan_en").Parse(planPromptEN)),
	LocaleJapanese: template.Must(template.New("plan_ja").Parse(planPromptJA)),
}

// unknownDays is rendered when the target date cannot be parsed.
const unknownDays = "?"

// planPromptData is the template input. Every field is already text so the
// caller's values appear verbatim.
type planPromptData struct {
	Name       string
	TargetDate string
	Days       string
	TotalHours string
	DailyHours string
	WeakAreas  string
}

// RenderPlanPrompt renders goal into the instruction block sent to the
// provider. The day count is computed against now's calendar date.
func RenderPlanPrompt(locale Locale, goal domain.GoalSpecification, now time.Time) string {
	days := unknownDays
	if target, ok := goal.ParseTargetDate(now.Location()); ok {
		days = strconv.Itoa(domain.DaysUntil(target, now))
	}

	tmpl, ok := planTemplates[locale]
	if !ok {
		tmpl = planTemplates[LocaleEnglish]
	}

	var buf bytes.Buffer
	// The data is plain strings; Execute cannot fail on it.
	_ = tmpl.Execute(&buf, planPromptData{
		Name:       goal.Name,
		TargetDate: goal.TargetDate,
		Days:       days,
		TotalHours: goal.TotalHours,
		DailyHours: goal.DailyHours,
		WeakAreas:  goal.WeakAreas,
	})
	return buf.String()
}
