package agent

import (
	"context"

	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// Reports provides the rendered markdown reports of the user's portfolio.
// The command layer implements it over the ledger and live market data; the
// agent only ever sees the finished reports.
type Reports interface {
	Sells(ctx context.Context) (string, error)
	Holdings(ctx context.Context) (string, error)
	Income(ctx context.Context) (string, error)
	Summary(ctx context.Context) (string, error)
}

// newFacilitator creates the expert driving the conversation.
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclarations(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You facilitate a conversation about the user's investment portfolio.

			The experts available as Tools are at your service and keep the
			context of your previous questions. The Analyst owns the user's
			portfolio reports: positions, realized and unrealized gains,
			dividend income, and the sold-too-early analysis. The Trader knows
			the markets and the news.

			The user is here to understand his portfolio's performance. Ask
			the Analyst for the figures first, the Trader for context around
			them, and answer with both. Be concrete, cite the figures you
			quote, and never invent numbers that are not in a report.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewTrader creates the search-grounded market expert.
func NewTrader() *Expert {
	return &Expert{
		Name: "Trader",
		Description: `An expert trader, aware of financial products,
		institutions, and the latest news about companies and funds. Ask the
		Trader whenever you need recent or grounding market information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in trading. You can search and find anything
			related to financial institutions, companies, markets, and funds,
			and you leverage Google Search to ground your assertions. Relate
			what you find to the symbols you are asked about.
				`}}},
		},
	}
}

// NewAnalyst creates the expert owning the portfolio reports.
func NewAnalyst(reports Reports) *Expert {
	library := []Function{
		reportFunc("SellsReport",
			`The realized-sales analysis: every past sale with its FIFO-matched
			cost basis, realized gain, and whether holding would have done
			better (sold too early / too late).`,
			reports.Sells),
		reportFunc("HoldingsReport",
			`The open positions per account, valued at current market quotes,
			with unrealized gains, account cash, and the watchlist.`,
			reports.Holdings),
		reportFunc("IncomeReport",
			`The dividend income received, per account and symbol.`,
			reports.Income),
		reportFunc("SummaryReport",
			`The one-page portfolio overview: accounts, total market value,
			realized and unrealized gains.`,
			reports.Summary),
	}
	return &Expert{
		Name: "Analyst",
		Description: `The Analyst owns the user's portfolio reports. Ask the
		Analyst for positions, realized or unrealized gains, dividend income,
		or the timing analysis of past sales.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclarations(library)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are the analyst of the user's investment portfolio. The Tools
			give you the portfolio's own reports as markdown; read them to
			answer questions about positions, gains, income, and sale timing.
			Figures marked n/a could not be computed from live data, say so
			instead of guessing them.
			`}}},
		},
		Library: NewLibrary(library),
	}
}

// reportFunc wraps one report into a callable, parameterless function.
func reportFunc(name, description string, render func(context.Context) (string, error)) Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: description,
			Parameters:  &genai.Schema{Type: genai.TypeObject},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "The report as markdown.",
			},
		},
		Func: func(ctx context.Context, id string, _ map[string]any) *genai.FunctionResponse {
			fresp := &genai.FunctionResponse{ID: id, Name: name}
			report, err := render(ctx)
			if err != nil {
				fresp.Response = map[string]any{"error": err.Error()}
				return fresp
			}
			fresp.Response = map[string]any{"output": report}
			return fresp
		},
	}
}

// Func implements Function from a declaration and a callback.
type Func struct {
	Decl *genai.FunctionDeclaration
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}
