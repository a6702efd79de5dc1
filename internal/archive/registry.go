package archive

import (
	"fmt"
	"sort"

	"github.com/Zuo-Peng/fb-quantifier/internal/activity"
)

// DefaultTimestampField is the field most archive files store event time in.
const DefaultTimestampField = "timestamp"

// Dialect describes how a plain kind's file stores its event times.
type Dialect struct {
	Field  string // timestamp field name
	Millis bool   // epoch is in milliseconds rather than seconds
}

// Splitter names the component that owns a file containing several kinds.
type Splitter int

const (
	SplitNone Splitter = iota
	SplitOwnPosts
	SplitViewed
	SplitVisited
	SplitMessages
)

func (s Splitter) String() string {
	switch s {
	case SplitOwnPosts:
		return "own-posts"
	case SplitViewed:
		return "viewed"
	case SplitVisited:
		return "visited"
	case SplitMessages:
		return "messages"
	default:
		return "none"
	}
}

// Route is the classifier's decision for a file: either a single kind read
// with Dialect, or a Splitter that emits several kinds.
type Route struct {
	Kind    activity.Kind
	Dialect Dialect
	Split   Splitter
}

// Name is a short identifier used in logs, metrics and the run store.
func (r Route) Name() string {
	if r.Split != SplitNone {
		return r.Split.String()
	}
	return string(r.Kind)
}

func kind(k activity.Kind) Route {
	return Route{Kind: k, Dialect: Dialect{Field: DefaultTimestampField}}
}

func kindField(k activity.Kind, field string) Route {
	return Route{Kind: k, Dialect: Dialect{Field: field}}
}

func split(s Splitter) Route {
	return Route{Split: s}
}

// registry maps every filename alias seen across archive versions to a route.
// Adding an alias for a new archive version is a one-line change in init.
var registry = make(map[string]Route)

func register(r Route, aliases ...string) {
	for _, a := range aliases {
		if prev, dup := registry[a]; dup {
			panic(fmt.Sprintf("archive: alias %q registered for %s and %s", a, prev.Name(), r.Name()))
		}
		registry[a] = r
	}
}

func init() {
	register(kind(activity.FriendAdded), "friends.json", "your_friends.json")
	register(kind(activity.FriendRequestReceived), "received_friend_requests.json", "friend_requests_received.json")
	register(kind(activity.FriendRequestRejected), "rejected_friend_requests.json")
	register(kind(activity.FriendRemoved), "removed_friends.json")
	register(kindField(activity.AppInstalled, "added_timestamp"), "apps_and_websites.json")
	register(kind(activity.AppPosted), "posts_from_apps_and_websites.json")
	register(kind(activity.CommentMade), "comments.json")
	register(kind(activity.Reacted), "posts_and_comments.json")
	register(kind(activity.PageLiked), "pages.json", "pages_you've_liked.json")
	register(kind(activity.PageCreated), "your_pages.json")
	register(kind(activity.ExternalPageLiked), "likes_on_external_sites.json")
	register(kind(activity.TimelinePostByOthers), "other_people's_posts_to_your_timeline.json")
	register(kindField(activity.NoteCreated, "created_timestamp"), "notes.json")
	register(kindField(activity.EventResponded, "start_timestamp"), "your_event_responses.json")
	register(kindField(activity.EventInvited, "start_timestamp"), "event_invitations.json")
	register(kind(activity.GroupMembership), "your_group_membership_activity.json")
	register(kind(activity.GroupPosted), "your_posts_and_comments_in_groups.json")
	register(kind(activity.ProfileUpdated), "profile_update_history.json")
	register(kind(activity.Searched), "your_search_history.json")
	register(kind(activity.AdInteraction), "advertisers_you've_interacted_with.json")
	register(kind(activity.Poked), "pokes.json")
	register(kind(activity.Voted), "polls_you_voted_on.json")
	register(kind(activity.ItemSaved), "saved_items_and_collections.json")
	register(kind(activity.Followed), "following.json", "who_you_follow.json")
	register(kindField(activity.AddressBookEntry, "created_timestamp"), "your_address_books.json")

	register(split(SplitOwnPosts), "your_posts_1.json")
	register(split(SplitViewed), "viewed.json", "recently_viewed.json")
	register(split(SplitVisited), "visited.json", "recently_visited.json")
}

// messageRoots are the directories, relative to the archive root, whose JSON
// files all hold conversations.
var messageRoots = []string{
	"messages",
	"your_activity_across_facebook/messages",
}

// messageExcludes are files under a message root that are not conversations.
var messageExcludes = map[string]bool{
	"autofill_information.json":     true,
	"secret_groups.json":            true,
	"community_chats_settings.json": true,
}

// MessageDialect is how conversation files store message times.
var MessageDialect = Dialect{Field: "timestamp_ms", Millis: true}

func aliases() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	return out
}

// PlainKinds returns every kind a single registered file can produce, in
// display order.
func PlainKinds() []activity.Kind {
	seen := map[activity.Kind]bool{}
	var out []activity.Kind
	for _, r := range registry {
		if r.Split == SplitNone && !seen[r.Kind] {
			seen[r.Kind] = true
			out = append(out, r.Kind)
		}
	}
	sort.Slice(out, func(i, j int) bool { return activity.Less(out[i], out[j]) })
	return out
}

// splitKinds lists the kinds each splitter can emit.
var splitKinds = map[Splitter][]activity.Kind{
	SplitOwnPosts: {activity.PostAny, activity.PostMedia, activity.PostTextOnly, activity.PostLink},
	SplitViewed:   {activity.ViewedVideo, activity.ViewedArticle, activity.ViewedMarketplaceItem},
	SplitVisited: {
		activity.VisitedProfile, activity.VisitedPage, activity.VisitedEventPage,
		activity.VisitedGroupPage, activity.VisitedMarketplace,
	},
	SplitMessages: {activity.MessageSent, activity.MessageReceived, activity.MessageSentOrReceived},
}

// Kinds returns the kinds a file on route r can produce.
func (r Route) Kinds() []activity.Kind {
	if r.Split == SplitNone {
		return []activity.Kind{r.Kind}
	}
	return splitKinds[r.Split]
}

// Produces reports whether the route called name can emit kind k.
func Produces(name string, k activity.Kind) bool {
	if name == string(k) {
		return true
	}
	for s, kinds := range splitKinds {
		if s.String() != name {
			continue
		}
		for _, sk := range kinds {
			if sk == k {
				return true
			}
		}
	}
	return false
}
