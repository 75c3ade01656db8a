package bracket

type GameID string

type Game struct {
	ID       GameID `json:"id"`
	Name     string `json:"name"`
	Platform string `json:"platform"`
	Category string `json:"category"`
	Rating   string `json:"rating"`
}

// Catalog is the fixed list of games teams can register for
var Catalog = []Game{
	{ID: "cod", Name: "Call of Duty", Platform: "Activision ID", Category: "FPS", Rating: "M"},
	{ID: "fortnite", Name: "Fortnite", Platform: "Epic Games", Category: "Battle Royale", Rating: "T"},
	{ID: "minecraft", Name: "Minecraft", Platform: "Minecraft Username", Category: "Sandbox", Rating: "E10+"},
	{ID: "roblox", Name: "Roblox", Platform: "Roblox Username", Category: "Platform", Rating: "E10+"},
	{ID: "fifa", Name: "FIFA", Platform: "EA ID", Category: "Sports", Rating: "E"},
	{ID: "madden", Name: "Madden", Platform: "EA ID", Category: "Sports", Rating: "E"},
	{ID: "nba2k", Name: "NBA 2K", Platform: "PSN/Xbox/Steam", Category: "Sports", Rating: "E"},
	{ID: "apex", Name: "Apex Legends", Platform: "Origin/Steam", Category: "Battle Royale", Rating: "T"},
	{ID: "rocket-league", Name: "Rocket League", Platform: "Epic Games", Category: "Sports", Rating: "E"},
	{ID: "fall-guys", Name: "Fall Guys", Platform: "Epic Games", Category: "Party", Rating: "E"},
}

func LookupGame(id GameID) (Game, bool) {
	for _, g := range Catalog {
		if g.ID == id {
			return g, true
		}
	}
	return Game{}, false
}
