package strategist

// 审计落盘：decide() 返回后异步追加，尽力而为，绝不阻塞调用方。

import (
	"context"
	"time"

	"bidsmith/internal/logger"
	"bidsmith/internal/store/decisionlog"
	"bidsmith/internal/types"
)

const auditWriteTimeout = 5 * time.Second

func (s *Strategist) recordAudit(state *pipelineState, final types.FinalDecision) {
	if s.audit == nil {
		return
	}
	rec := decisionlog.Record{
		TraceID:          state.traceID,
		Domain:           state.auction.Domain,
		Platform:         string(state.auction.Platform),
		ThreadID:         state.auction.ThreadID,
		DecisionSource:   string(final.DecisionSource),
		Strategy:         string(final.Strategy),
		Amount:           final.RecommendedBidAmount,
		Confidence:       final.Confidence,
		BlockReason:      state.blockReason,
		ValidationReason: state.validationReason,
		SystemPrompt:     state.proposal.SystemPrompt,
		UserPrompt:       state.proposal.UserPrompt,
		RawOutput:        state.proposal.RawOutput,
		Final:            &final,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
		defer cancel()
		if err := s.audit.Append(ctx, rec); err != nil {
			logger.Warnf("审计写入失败 (trace=%s): %v", rec.TraceID, err)
		}
	}()
}
