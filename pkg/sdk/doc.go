// Package bestnight is an embeddable Go client for the BestNight combo engine.
// It pairs highly rated restaurants with bars within walking distance, using
// the Google Maps Platform as the venue source and an in-process or shared
// Redis/Valkey cache for provider results.
//
// # Searching
//
//	client, _ := bestnight.New(ctx,
//	    bestnight.WithAPIKey(os.Getenv("GOOGLE_MAPS_API_KEY")),
//	)
//	defer client.Close()
//
//	combos, _ := client.FindCombos(ctx, 51.5136, -0.1365, 1000)
//	for _, c := range combos {
//	    fmt.Printf("%s + %s: %.1f, %d min walk\n",
//	        c.Restaurant.Name, c.Bar.Name, c.Score, c.WalkMinutes)
//	}
//
// # Refining and details
//
//	italian, _ := client.Refine(combos, bestnight.Filter{Cuisine: "Italian Restaurant"}, bestnight.SortByWalk)
//	details, _ := client.Details(ctx, italian[0])
//	fmt.Println(details.Restaurant.Phone, details.Bar.HoursToday)
//
// # Shared cache
//
//	client, _ := bestnight.New(ctx,
//	    bestnight.WithAPIKey(key),
//	    bestnight.WithValkey("localhost:6379", ""),
//	)
package bestnight
