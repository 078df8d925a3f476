package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/chromesync/internal/decoration"
	"github.com/1broseidon/chromesync/internal/ipc"
)

func (s *Server) handleGetDecoration(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetDecorationInput) (*mcpsdk.CallToolResult, DecorationOutput, error) {
	return result(s.client.GetStatus())
}

func (s *Server) handleSetDecoration(_ context.Context, _ *mcpsdk.CallToolRequest, args SetDecorationInput) (*mcpsdk.CallToolResult, DecorationOutput, error) {
	flag, err := decoration.ParseFlag(args.Flag)
	if err != nil {
		return nil, DecorationOutput{}, err
	}
	return result(s.client.SetFlag(flag.String(), args.Enabled))
}

func (s *Server) handleCenterWindow(_ context.Context, _ *mcpsdk.CallToolRequest, _ CenterWindowInput) (*mcpsdk.CallToolResult, DecorationOutput, error) {
	return result(s.client.Center())
}

func (s *Server) handleRecreateWindow(_ context.Context, _ *mcpsdk.CallToolRequest, _ RecreateWindowInput) (*mcpsdk.CallToolResult, DecorationOutput, error) {
	return result(s.client.Recreate())
}

func result(st *ipc.StatusData, err error) (*mcpsdk.CallToolResult, DecorationOutput, error) {
	if err != nil {
		return nil, DecorationOutput{}, err
	}
	if st == nil {
		return nil, DecorationOutput{}, fmt.Errorf("daemon returned no status")
	}
	return nil, toOutput(st), nil
}

func toOutput(st *ipc.StatusData) DecorationOutput {
	return DecorationOutput{
		NativeTitleBar:  st.Config.NativeTitleBar,
		PreserveFrame:   st.Config.PreserveFrame,
		Blur:            st.Config.Blur,
		Resizable:       st.Config.Resizable,
		TitleBarVisible: st.Chrome.TitleBarVisible,
		Background:      st.Chrome.Background,
		Translucent:     st.Chrome.Translucent,
		MaximizeGlyph:   st.Chrome.Glyph,
		CenterEnabled:   st.Chrome.CenterEnabled,
		WindowState:     st.Chrome.WindowState,
		Handle:          fmt.Sprintf("0x%x", st.Handle),
		TopLevel:        st.TopLevel,
		Warnings:        st.Warnings,
	}
}
