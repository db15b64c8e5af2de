package cmd

import (
	"context"
	"fmt"

	"github.com/haierkeys/note-review-service/global"
	internalApp "github.com/haierkeys/note-review-service/internal/app"
	"github.com/haierkeys/note-review-service/internal/dto"
	"github.com/haierkeys/note-review-service/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// mcpClientName 通过 MCP 触发的操作在笔记来源里的客户端标识
const mcpClientName = "MCP"

type mcpFlags struct {
	config string // 指定要使用的配置文件路径
	uid    int64  // 操作归属的用户 UID
}

func init() {
	mcpEnv := new(mcpFlags)

	var mcpCommand = &cobra.Command{
		Use:   "mcp [-c config_file] [-u uid]",
		Short: "Run MCP stdio server exposing review tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCP(mcpEnv)
		},
	}

	rootCmd.AddCommand(mcpCommand)
	fs := mcpCommand.Flags()
	fs.StringVarP(&mcpEnv.config, "config", "c", "config/config.yaml", "config file")
	fs.Int64VarP(&mcpEnv.uid, "uid", "u", 1, "acting user uid")
}

// runMCP 装配应用容器并在标准输入输出上提供 MCP 工具
// 工具调用与 HTTP 接口走同一条服务链路
func runMCP(env *mcpFlags) error {
	appConfig, _, err := internalApp.LoadConfig(env.config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// MCP 使用 stdout 作为协议通道，日志只写文件
	lg, err := logger.NewLogger(logger.Config{
		Level:      appConfig.Log.Level,
		File:       appConfig.Log.File,
		Production: true,
	})
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	global.Logger = lg

	db, err := initDatabaseWithConfig(appConfig, lg)
	if err != nil {
		return fmt.Errorf("failed to init database: %w", err)
	}

	appContainer, err := internalApp.NewApp(appConfig, lg, db)
	if err != nil {
		return fmt.Errorf("failed to create app container: %w", err)
	}
	defer func() {
		if err := appContainer.Close(); err != nil {
			lg.Warn("app container close", zap.Error(err))
		}
	}()

	s := server.NewMCPServer(
		internalApp.Name,
		internalApp.Version,
		server.WithToolCapabilities(false),
	)

	addLinkTool := mcp.NewTool("review_add_link",
		mcp.WithDescription("Append a wiki link to the given note under the review heading of the current monthly note. Links already present are not duplicated."),
		mcp.WithString("vault",
			mcp.Required(),
			mcp.Description("Vault name the note belongs to"),
		),
		mcp.WithString("note_path",
			mcp.Required(),
			mcp.Description("Vault-relative path of the source note, e.g. \"Projects/idea.md\""),
		),
	)

	s.AddTool(addLinkTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		vault, err := request.RequireString("vault")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		notePath, err := request.RequireString("note_path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		svc := appContainer.GetReviewService(mcpClientName, internalApp.Version)
		result, err := svc.AddLink(ctx, env.uid, &dto.ReviewAddLinkRequest{
			Vault: vault,
			Path:  notePath,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		payload, err := sonic.MarshalString(result)
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(payload), nil
	})

	openTool := mcp.NewTool("review_open_note",
		mcp.WithDescription("Locate the monthly note for the current month, creating it when absent, and return its path and content."),
		mcp.WithString("vault",
			mcp.Required(),
			mcp.Description("Vault name to resolve the monthly note in"),
		),
	)

	s.AddTool(openTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		vault, err := request.RequireString("vault")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		svc := appContainer.GetReviewService(mcpClientName, internalApp.Version)
		note, err := svc.Open(ctx, env.uid, &dto.ReviewOpenRequest{Vault: vault})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		payload, err := sonic.MarshalString(note)
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(payload), nil
	})

	lg.Info("mcp stdio server starting", zap.Int64("uid", env.uid))
	return server.ServeStdio(s)
}
