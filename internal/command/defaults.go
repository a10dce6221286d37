package command

import "github.com/VoxDroid/stovbot/internal/variable"

const eightBall = `🎱 {{` +
	`let responses = ["All signs point to yes...", "Yes!", "My sources say nope.", ` +
	`"You may rely on it.", "Concentrate and ask again...", ` +
	`"Outlook not so good...", "It is decidedly so!", ` +
	`"Better not tell you.", "Very doubtful.", "Yes - Definitely!", ` +
	`"It is certain!", "Most likely.", "Ask again later.", "No!", ` +
	`"Outlook good.", "Don't count on it."]; ` +
	`responses[floor(random() * len(responses))]` +
	`}}`

const quote = `{{` +
	`let quotes = get_list("quotes"); ` +
	`let i = int("$1"); if i == 0 { i = random_index(quotes) } else { i -= 1 } ` +
	`quotes[i]` +
	`}}`

// Defaults returns the commands every bot starts with. They are seeded into
// the store and protected like built-ins.
func Defaults() []*Command {
	return []*Command{
		{Trigger: "!8ball", Response: eightBall},
		{Trigger: "!quote", Response: quote},
		{Trigger: "!quote add", Response: "!variable edit quotes+ [$1]", IsAlias: true},
	}
}

// DefaultVariables returns the variables the default commands rely on.
func DefaultVariables() []variable.Variable {
	return []variable.Variable{*variable.New("quotes", variable.StringList())}
}
