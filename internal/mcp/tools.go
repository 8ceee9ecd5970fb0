package mcp

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ReportArgs are the arguments shared by every report tool.
type ReportArgs struct {
	Tenant string `json:"tenant" jsonschema:"Tenant (brokerage) identifier of the cached snapshot"`
	From   string `json:"from,omitempty" jsonschema:"Optional window start (YYYY-MM-DD or RFC3339). Omit both bounds for a total report."`
	To     string `json:"to,omitempty" jsonschema:"Optional window end (YYYY-MM-DD or RFC3339; a bare date is that day at midnight)"`
	TeamID string `json:"team_id,omitempty" jsonschema:"Optional: restrict to the active members of one team"`
	UserID string `json:"user_id,omitempty" jsonschema:"Optional: restrict to one broker"`
}

// ListArgs takes no arguments.
type ListArgs struct{}

type reportTool struct {
	name        string
	description string
	run         func(s *Server, ctx context.Context, args ReportArgs) (string, error)
}

var reportTools = []reportTool{
	{
		name: "dashboard_metrics",
		description: "Headline metrics of a brokerage: total leads, leads per funnel stage, average response time, conversion rate, growth against the previous window, top broker and top team. " +
			"Growth compares the requested window (or the trailing default window) with the window of equal length right before it.",
		run: (*Server).handleDashboard,
	},
	{
		name: "company_report",
		description: "Company-wide performance report: funnel counts in stage order, leads without a stage, visits, sales, conversion, response and first-open times, tag counts per stage, growth and the monthly evolution of the year. " +
			"Leads still on legacy stage keys are resolved onto the current stages.",
		run: (*Server).handleCompanyReport,
	},
	{
		name:        "team_reports",
		description: "One performance report per team (active members only), in the order teams are defined. The top teams by lead volume carry their ranking position.",
		run:         (*Server).handleTeamReports,
	},
	{
		name:        "user_reports",
		description: "One performance report per active broker: leads, sales, conversion, response and first-open times. The top brokers by conversion rate carry their ranking position.",
		run:         (*Server).handleUserReports,
	},
	{
		name:        "report_bundle",
		description: "Every report at once (dashboard, company, teams, brokers) computed over the same snapshot.",
		run:         (*Server).handleBundle,
	},
}

func (s *Server) registerTools(server *sdk.Server) error {
	reportSchema, err := jsonschema.For[ReportArgs](nil)
	if err != nil {
		return fmt.Errorf("report tool schema: %w", err)
	}
	listSchema, err := jsonschema.For[ListArgs](nil)
	if err != nil {
		return fmt.Errorf("list tool schema: %w", err)
	}

	for _, tool := range reportTools {
		run := tool.run
		sdk.AddTool(server, &sdk.Tool{
			Name:        tool.name,
			Description: tool.description,
			InputSchema: reportSchema,
		}, func(ctx context.Context, req *sdk.CallToolRequest, args ReportArgs) (*sdk.CallToolResult, any, error) {
			text, err := run(s, ctx, args)
			if err != nil {
				return nil, nil, err
			}
			return textResult(text), nil, nil
		})
	}

	sdk.AddTool(server, &sdk.Tool{
		Name:        "list_tenants",
		Description: "List the tenants with a snapshot in the cache directory.",
		InputSchema: listSchema,
	}, func(ctx context.Context, req *sdk.CallToolRequest, _ ListArgs) (*sdk.CallToolResult, any, error) {
		text, err := s.handleListTenants()
		if err != nil {
			return nil, nil, err
		}
		return textResult(text), nil, nil
	})

	return nil
}

func textResult(text string) *sdk.CallToolResult {
	return &sdk.CallToolResult{
		Content: []sdk.Content{&sdk.TextContent{Text: text}},
	}
}
