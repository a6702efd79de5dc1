package activity

import "fmt"

// Kind identifies a semantic activity independent of how any archive version
// names the file it came from.
type Kind string

const (
	FriendAdded           Kind = "friend-added"
	FriendRequestReceived Kind = "friend-request-received"
	FriendRequestRejected Kind = "friend-request-rejected"
	FriendRemoved         Kind = "friend-removed"
	AppInstalled          Kind = "app-installed"
	AppPosted             Kind = "app-posted"
	CommentMade           Kind = "comment-made"
	Reacted               Kind = "reacted"
	PageLiked             Kind = "page-liked"
	PageCreated           Kind = "page-created"
	ExternalPageLiked     Kind = "external-page-liked"
	TimelinePostByOthers  Kind = "timeline-post-by-others"
	NoteCreated           Kind = "note-created"
	EventResponded        Kind = "event-responded"
	EventInvited          Kind = "event-invited"
	GroupMembership       Kind = "group-membership"
	GroupPosted           Kind = "group-posted"
	ProfileUpdated        Kind = "profile-updated"
	Searched              Kind = "searched"
	AdInteraction         Kind = "ad-interaction"
	Poked                 Kind = "poked"
	Voted                 Kind = "voted"
	ItemSaved             Kind = "item-saved"
	Followed              Kind = "followed"
	AddressBookEntry      Kind = "address-book-entry"

	PostAny      Kind = "post-any"
	PostMedia    Kind = "post-media"
	PostLink     Kind = "post-link"
	PostTextOnly Kind = "post-text-only"

	ViewedVideo           Kind = "viewed-video"
	ViewedArticle         Kind = "viewed-article"
	ViewedMarketplaceItem Kind = "viewed-marketplace-item"

	VisitedProfile     Kind = "visited-profile"
	VisitedPage        Kind = "visited-page"
	VisitedEventPage   Kind = "visited-event-page"
	VisitedGroupPage   Kind = "visited-group-page"
	VisitedMarketplace Kind = "visited-marketplace"

	MessageSent           Kind = "message-sent"
	MessageReceived       Kind = "message-received"
	MessageSentOrReceived Kind = "message-sent-or-received"
)

// kinds holds every known kind with its output column label, in display order.
var kinds = []struct {
	kind  Kind
	label string
}{
	{FriendAdded, "added_friend"},
	{FriendRequestReceived, "received_friend_request"},
	{FriendRequestRejected, "rejected_friend_request"},
	{FriendRemoved, "removed_friend"},
	{AppInstalled, "installed_app"},
	{AppPosted, "apps_posts"},
	{CommentMade, "commented"},
	{Reacted, "reactions"},
	{PageLiked, "liked_page"},
	{PageCreated, "created_page"},
	{ExternalPageLiked, "liked_external_pages"},
	{TimelinePostByOthers, "others_posts_timeline"},
	{NoteCreated, "created_note"},
	{EventResponded, "responded_event"},
	{EventInvited, "event_invitation"},
	{GroupMembership, "group_membership_activity"},
	{GroupPosted, "group_posts"},
	{ProfileUpdated, "profile_updated"},
	{Searched, "searched"},
	{AdInteraction, "ad_interaction"},
	{Poked, "poked"},
	{Voted, "voted"},
	{ItemSaved, "saved_item"},
	{Followed, "followed_sb_st"},
	{AddressBookEntry, "addressbook_entry"},
	{PostAny, "own_posts_all"},
	{PostMedia, "own_posts_media"},
	{PostTextOnly, "own_posts_text_only"},
	{PostLink, "own_posts_links"},
	{MessageSent, "message_sent"},
	{MessageReceived, "message_received"},
	{MessageSentOrReceived, "message_received_or_sent"},
	{ViewedVideo, "viewed_video"},
	{ViewedArticle, "viewed_article"},
	{ViewedMarketplaceItem, "viewed_marketplace_item"},
	{VisitedProfile, "visited_profile"},
	{VisitedPage, "visited_page"},
	{VisitedEventPage, "visited_event_page"},
	{VisitedGroupPage, "visited_group_page"},
	{VisitedMarketplace, "visited_marketplace"},
}

var (
	labels  = make(map[Kind]string, len(kinds))
	byLabel = make(map[string]Kind, len(kinds))
	order   = make(map[Kind]int, len(kinds))
)

func init() {
	for i, k := range kinds {
		if _, dup := labels[k.kind]; dup {
			panic(fmt.Sprintf("activity: duplicate kind %q", k.kind))
		}
		if _, dup := byLabel[k.label]; dup {
			panic(fmt.Sprintf("activity: duplicate label %q", k.label))
		}
		labels[k.kind] = k.label
		byLabel[k.label] = k.kind
		order[k.kind] = i
	}
}

// Label returns the column name used for the kind in exported tables.
// Unknown kinds fall back to their id.
func (k Kind) Label() string {
	if l, ok := labels[k]; ok {
		return l
	}
	return string(k)
}

func (k Kind) String() string { return string(k) }

// Known reports whether k is a registered kind.
func (k Kind) Known() bool {
	_, ok := labels[k]
	return ok
}

// All returns every known kind in display order.
func All() []Kind {
	out := make([]Kind, len(kinds))
	for i, k := range kinds {
		out[i] = k.kind
	}
	return out
}

// ParseLabel maps a column label (or a kind id) back to its Kind.
func ParseLabel(s string) (Kind, bool) {
	if k, ok := byLabel[s]; ok {
		return k, true
	}
	if k := Kind(s); k.Known() {
		return k, true
	}
	return "", false
}

// Less orders kinds by display order; unknown kinds sort last by id.
func Less(a, b Kind) bool {
	ia, oka := order[a]
	ib, okb := order[b]
	switch {
	case oka && okb:
		return ia < ib
	case oka:
		return true
	case okb:
		return false
	default:
		return a < b
	}
}
