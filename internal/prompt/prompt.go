package prompt

import (
	"fmt"
	"strings"

	"gitmsg/internal/changes"
	"gitmsg/internal/config"
	"gitmsg/internal/textutil"
)

// Payload is the two-part prompt handed to an LLM provider.
type Payload struct {
	SystemPrompt string
	UserPrompt   string
}

// defaultSystemPrompt instructs the model to produce a single conventional
// commit message and nothing else.
const defaultSystemPrompt = `You are an expert software engineer who writes precise git commit messages.
You receive a summary of repository changes (status, diffs, untracked file content) and respond with exactly one commit message.
Output only the commit message. No explanation, no markdown, no code fences, no surrounding quotes.`

// defaultRuleTemplateEN is the built-in analysis guidance used when no rule
// template is configured.
const defaultRuleTemplateEN = `Analyze the changes before writing:
- Determine the primary intent of the whole change set: feat, fix, refactor, docs, test, chore, build, ci, perf, or style.
- Choose the matching emoji: ✨ feat, 🐛 fix, ♻️ refactor, 📝 docs, ✅ test, 🔧 chore, 👷 ci, ⚡ perf, 🎨 style.
- Describe what changed and why, not how the code works.`

// defaultRuleTemplateZH mirrors defaultRuleTemplateEN in Chinese.
const defaultRuleTemplateZH = `在撰写提交信息之前先分析变更：
- 判断整组变更的主要意图：feat、fix、refactor、docs、test、chore、build、ci、perf 或 style。
- 选择对应的表情符号：✨ feat、🐛 fix、♻️ refactor、📝 docs、✅ test、🔧 chore、👷 ci、⚡ perf、🎨 style。
- 描述改了什么、为什么改，而不是代码如何工作。`

const formatRulesEN = `Output format requirements:
- Output exactly one complete commit message.
- First line: <emoji> <type>(optional-scope): <subject>
- Every following line describes one concrete change.
- No markdown, no surrounding quotes.
- No generic subjects like "update code" or "fix bug"; be specific.`

const formatRulesZH = `输出格式要求：
- 只输出一条完整的提交信息。
- 第一行：<emoji> <type>(可选范围): <主题>
- 之后每一行描述一个具体的改动。
- 不要使用 Markdown，不要用引号包裹。
- 不要使用"更新代码"、"修复问题"这类空泛的主题，要具体。`

// noDiffPlaceholder stands in for the diff section when nothing was
// collected, so the prompt structure stays fixed.
const noDiffPlaceholder = "(no diff provided)"

// Build renders the two-part prompt for a collected snapshot. It is pure:
// same snapshot and config always produce the same payload.
func Build(snap *changes.Snapshot, cfg config.Config) Payload {
	var sections []string

	sections = append(sections, taskStatement(cfg.Language))
	sections = append(sections, ruleTemplate(cfg))

	if !textutil.IsBlank(cfg.AdditionalRules) {
		sections = append(sections, strings.TrimSpace(cfg.AdditionalRules))
	}

	sections = append(sections, formatRules(cfg.Language))

	if !textutil.IsBlank(snap.Status) {
		sections = append(sections, "Git status:\n"+strings.TrimSpace(snap.Status))
	}

	diff := snap.Diff
	if textutil.IsBlank(diff) {
		diff = noDiffPlaceholder
	}
	sections = append(sections, "Changes:\n"+diff)

	if snap.FileLimited {
		sections = append(sections, fileLimitNote(cfg.Language, snap.IncludedChangedFiles, snap.TotalChangedFiles))
	}
	if snap.Truncated {
		sections = append(sections, truncationNote(cfg.Language))
	}

	system := cfg.SystemPrompt
	if textutil.IsBlank(system) {
		system = defaultSystemPrompt
	}

	return Payload{
		SystemPrompt: system,
		UserPrompt:   strings.Join(sections, "\n\n"),
	}
}

func taskStatement(lang string) string {
	if lang == "zh" {
		return "请根据下面的代码仓库变更生成一条 git 提交信息。"
	}
	return "Generate a git commit message for the repository changes below."
}

func ruleTemplate(cfg config.Config) string {
	if !textutil.IsBlank(cfg.RuleTemplate) {
		return strings.TrimSpace(cfg.RuleTemplate)
	}
	if cfg.Language == "zh" {
		return defaultRuleTemplateZH
	}
	return defaultRuleTemplateEN
}

func formatRules(lang string) string {
	if lang == "zh" {
		return formatRulesZH
	}
	return formatRulesEN
}

func fileLimitNote(lang string, included, total int) string {
	if lang == "zh" {
		return fmt.Sprintf("注意：由于文件数量限制，以上内容仅包含 %d 个变更文件中的 %d 个。", total, included)
	}
	return fmt.Sprintf("Note: only %d of %d changed files are included above due to the file-count limit.", included, total)
}

func truncationNote(lang string) string {
	if lang == "zh" {
		return "注意：差异内容因大小限制被截断。"
	}
	return "Note: the diff was truncated to fit the size limit."
}
