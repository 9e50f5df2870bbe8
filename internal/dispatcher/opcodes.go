package dispatcher

// Opcode identifies a request or response kind on the wire. Numeric
// values are a stable contract shared with unchanged clients.
type Opcode int32

const (
	NoMessage Opcode = iota

	NewMessage
	NewMessageResponse
	NewUser
	NewUserResponse
	NewConversation
	NewConversationResponse
	GetUsers
	GetUsersResponse
	GetAllConversations
	GetAllConversationsResponse
	GetConversationsByID
	GetConversationsByIDResponse
	GetMessagesByID
	GetMessagesByIDResponse
	ServerInfo
	ServerInfoResponse
	GetConversationInterests
	GetConversationInterestsResponse
	NewConversationInterest
	NewConversationInterestResponse
	RemoveConversationInterest
	RemoveConversationInterestResponse
	GetUserInterests
	GetUserInterestsResponse
	NewUserInterest
	NewUserInterestResponse
	RemoveUserInterest
	RemoveUserInterestResponse
	NewUpdatedConversation
	NewUpdatedConversationResponse
	GetUpdatedConversations
	GetUpdatedConversationsResponse
	UpdateUserLastStatusUpdate
	UpdateUserLastStatusUpdateResponse
	GetUserLastStatusUpdate
	GetUserLastStatusUpdateResponse
	GetUserMessageCount
	GetUserMessageCountResponse
	UpdateUserMessageCount
	UpdateUserMessageCountResponse
	ToggleMemberBit
	ToggleMemberBitResponse
	ToggleOwnerBit
	ToggleOwnerBitResponse
	ToggleCreatorBit
	ToggleCreatorBitResponse
	ToggleRemovedBit
	ToggleRemovedBitResponse
	GetUserAccessControl
	GetUserAccessControlResponse
)
