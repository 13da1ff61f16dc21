package engine

import "helpdesk-automation/internal/model"

// NodeID names a step of the workflow graph.
type NodeID string

const (
	NodeRetrieve          NodeID = "retrieve"
	NodeClassify          NodeID = "classify"
	NodeEscalate          NodeID = "escalate"
	NodeAwaitHuman        NodeID = "await_human"
	NodeProcessHumanReply NodeID = "process_human_reply"
	NodeCompose           NodeID = "compose"
	NodeEnd               NodeID = "end"
)

// Start is the first node of every run.
const Start = NodeRetrieve

// Router picks the successor of a node from the merged state.
type Router func(s model.ConversationState) NodeID

// Node is one entry of the transition table. A Suspend node has no handler:
// the engine persists and returns while its router points back at itself.
type Node struct {
	Handle  Handler
	Route   Router
	Suspend bool
}

// Successors enumerates every edge of the graph.
var Successors = map[NodeID][]NodeID{
	NodeRetrieve:          {NodeClassify},
	NodeClassify:          {NodeCompose, NodeEscalate},
	NodeEscalate:          {NodeProcessHumanReply, NodeAwaitHuman},
	NodeAwaitHuman:        {NodeProcessHumanReply, NodeAwaitHuman},
	NodeProcessHumanReply: {NodeEnd},
	NodeCompose:           {NodeEnd},
}

func always(next NodeID) Router {
	return func(model.ConversationState) NodeID { return next }
}

// RouteAfterClassify sends automatic queries to Compose and everything else to Escalate.
func RouteAfterClassify(s model.ConversationState) NodeID {
	if s.Category == model.CategoryAutomatic {
		return NodeCompose
	}
	return NodeEscalate
}

// RouteAfterEscalate continues to ProcessHumanReply once a human response is
// present and suspends otherwise.
func RouteAfterEscalate(s model.ConversationState) NodeID {
	if s.HumanResponse != nil && *s.HumanResponse != "" {
		return NodeProcessHumanReply
	}
	return NodeAwaitHuman
}
