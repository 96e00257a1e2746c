package models

// CategoryGroup is one named bucket of text channels.
type CategoryGroup struct {
	ID       string
	Name     string
	Channels []Channel
}

// GroupByCategory partitions text channels under their parent categories,
// preserving the order in which categories appear in the input. Text channels
// whose parent is missing or not a category land in the uncategorized bucket.
func GroupByCategory(channels []Channel) ([]CategoryGroup, []Channel) {
	var groups []CategoryGroup
	index := make(map[string]int)

	for _, ch := range channels {
		if ch.Kind == CategoryChannel {
			index[ch.ID] = len(groups)
			groups = append(groups, CategoryGroup{ID: ch.ID, Name: ch.Name})
		}
	}

	var uncategorized []Channel
	for _, ch := range channels {
		if ch.Kind != TextChannel {
			continue
		}
		if i, ok := index[ch.ParentID]; ok && ch.ParentID != "" {
			groups[i].Channels = append(groups[i].Channels, ch)
		} else {
			uncategorized = append(uncategorized, ch)
		}
	}

	return groups, uncategorized
}

// CategoryNames maps category IDs to their names, for labeling channels in
// flat listings.
func CategoryNames(channels []Channel) map[string]string {
	names := make(map[string]string)
	for _, ch := range channels {
		if ch.Kind == CategoryChannel {
			names[ch.ID] = ch.Name
		}
	}
	return names
}
