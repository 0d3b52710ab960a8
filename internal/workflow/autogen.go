// Package workflow emits runnable AutoGen workflow scripts wired to a
// generated persona set.
package workflow

import (
	"fmt"
	"strings"
	"text/template"

	"personagen/internal/persona"
)

// Type selects the agent interaction pattern of the emitted workflow.
type Type string

const (
	// Autonomous pairs each persona agent with a user proxy in a free chat.
	Autonomous Type = "autonomous"
	// Sequential chains the persona agents so each builds on the previous
	// agent's output.
	Sequential Type = "sequential"
	// GroupChat puts all persona agents in one managed group conversation.
	GroupChat Type = "groupchat"
)

// ParseType maps a user-supplied string to a workflow Type.
func ParseType(s string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case Autonomous:
		return Autonomous, nil
	case Sequential:
		return Sequential, nil
	case GroupChat:
		return GroupChat, nil
	}
	return "", fmt.Errorf("unknown workflow type %q (want autonomous, sequential, or groupchat)", s)
}

// Spec describes the workflow to emit.
type Spec struct {
	Type     Type
	Task     string
	Model    string
	Personas persona.PersonaSet
}

type agentView struct {
	VarName       string
	Name          string
	SystemMessage string
}

type templateData struct {
	Task   string
	Model  string
	Agents []agentView
}

// Emit renders the workflow script.
func Emit(spec Spec) (string, error) {
	if len(spec.Personas) == 0 {
		return "", fmt.Errorf("workflow needs at least one persona")
	}
	if strings.TrimSpace(spec.Task) == "" {
		return "", fmt.Errorf("workflow needs a task")
	}
	model := spec.Model
	if model == "" {
		model = "gpt-4o"
	}

	tmpl, ok := templates[spec.Type]
	if !ok {
		return "", fmt.Errorf("unknown workflow type %q", spec.Type)
	}

	data := templateData{
		Task:  spec.Task,
		Model: model,
	}
	for _, p := range spec.Personas {
		data.Agents = append(data.Agents, agentView{
			VarName:       agentVarName(p.Name),
			Name:          p.Name,
			SystemMessage: agentSystemMessage(p),
		})
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("failed to render workflow: %w", err)
	}
	return b.String(), nil
}

// agentVarName derives a Python identifier from a persona name.
func agentVarName(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == ' ', r == '-', r == '.':
			pendingSep = true
		}
	}
	id := strings.Trim(b.String(), "_")
	if id == "" || (id[0] >= '0' && id[0] <= '9') {
		id = "agent_" + id
	}
	return id
}

// agentSystemMessage condenses a persona into the agent's system message.
func agentSystemMessage(p persona.Persona) string {
	return fmt.Sprintf(
		"You are %s. Background: %s Goals: %s Beliefs: %s Knowledge: %s Communicate in this style: %s",
		p.Name, p.Background, p.Goals, p.Beliefs, p.Knowledge, p.CommunicationStyle)
}

func pyQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return `"` + s + `"`
}

var funcs = template.FuncMap{"py": pyQuote}

var templates = map[Type]*template.Template{
	Autonomous: template.Must(template.New("autonomous").Funcs(funcs).Parse(autonomousTemplate)),
	Sequential: template.Must(template.New("sequential").Funcs(funcs).Parse(sequentialTemplate)),
	GroupChat:  template.Must(template.New("groupchat").Funcs(funcs).Parse(groupChatTemplate)),
}

const header = `import autogen

config_list = [{"model": {{py .Model}}}]
llm_config = {"config_list": config_list}
`

const autonomousTemplate = header + `
{{range .Agents}}{{.VarName}} = autogen.AssistantAgent(
    name={{py .Name}},
    system_message={{py .SystemMessage}},
    llm_config=llm_config,
)
{{end}}
user_proxy = autogen.UserProxyAgent(
    name="user_proxy",
    human_input_mode="NEVER",
    max_consecutive_auto_reply=5,
    code_execution_config=False,
)

{{range .Agents}}user_proxy.initiate_chat({{.VarName}}, message={{py $.Task}})
{{end}}`

const sequentialTemplate = header + `
{{range .Agents}}{{.VarName}} = autogen.AssistantAgent(
    name={{py .Name}},
    system_message={{py .SystemMessage}},
    llm_config=llm_config,
)
{{end}}
user_proxy = autogen.UserProxyAgent(
    name="user_proxy",
    human_input_mode="NEVER",
    max_consecutive_auto_reply=1,
    code_execution_config=False,
)

task = {{py .Task}}
{{range .Agents}}result = user_proxy.initiate_chat({{.VarName}}, message=task)
task = task + "\n\nPrevious output:\n" + result.summary
{{end}}`

const groupChatTemplate = header + `
{{range .Agents}}{{.VarName}} = autogen.AssistantAgent(
    name={{py .Name}},
    system_message={{py .SystemMessage}},
    llm_config=llm_config,
)
{{end}}
user_proxy = autogen.UserProxyAgent(
    name="user_proxy",
    human_input_mode="NEVER",
    code_execution_config=False,
)

groupchat = autogen.GroupChat(
    agents=[user_proxy{{range .Agents}}, {{.VarName}}{{end}}],
    messages=[],
    max_round=12,
)
manager = autogen.GroupChatManager(groupchat=groupchat, llm_config=llm_config)

user_proxy.initiate_chat(manager, message={{py .Task}})
`
