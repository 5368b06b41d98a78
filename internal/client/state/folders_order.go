package state

import "github.com/dpetrovs/memhub/internal/client/models"

// FolderSortStep is the gap between adjacent sort_order values. Descending
// numeric order is the display order.
const FolderSortStep = 10

// NextSortOrder returns a sort_order strictly greater than every existing
// one, so a new folder lands at the top of the list.
func NextSortOrder(folders []models.Folder) int64 {
	var maxOrder int64
	for _, f := range folders {
		if f.SortOrder > maxOrder {
			maxOrder = f.SortOrder
		}
	}
	return maxOrder + FolderSortStep
}

// ApplySortOrder re-ranks the whole list by position: the folder at index i
// gets (len-i)*FolderSortStep, producing strictly decreasing, gap-free values
// regardless of prior drift. The input is not modified.
func ApplySortOrder(folders []models.Folder) []models.Folder {
	size := len(folders)
	out := make([]models.Folder, size)
	for i, f := range folders {
		f.SortOrder = int64(size-i) * FolderSortStep
		out[i] = f
	}
	return out
}
