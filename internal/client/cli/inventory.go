package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/kaman1990/field-service-sub001/internal/client/repositories/inventory"
	"github.com/kaman1990/field-service-sub001/internal/common"
)

// dictionaries loads the area and status lookup tables as id -> name maps.
func (a *App) dictionaries(ctx context.Context) (map[string]string, map[string]string, error) {
	areaRows, err := a.inventory.ListAreas(ctx)
	if err != nil {
		return nil, nil, err
	}
	statusRows, err := a.inventory.ListStatuses(ctx)
	if err != nil {
		return nil, nil, err
	}

	areas := make(map[string]string, len(areaRows))
	for _, item := range areaRows {
		areas[item.ID] = item.Name
	}
	statuses := make(map[string]string, len(statusRows))
	for _, item := range statusRows {
		statuses[item.ID] = item.Name
	}
	return areas, statuses, nil
}

// Assets lists catalog assets, optionally narrowed by a name/serial filter.
func (a *App) Assets(ctx context.Context) error {
	filter, err := getSimpleText(a.reader, "Filter by name or serial (empty for all)", os.Stdout)
	if err != nil {
		return err
	}

	assets, err := a.inventory.ListAssets(ctx, inventory.AssetFilter{Text: filter})
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	if len(assets) == 0 {
		printlnFn("No assets.")
		return nil
	}

	areas, statuses, err := a.dictionaries(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	for _, item := range assets {
		printlnFn(fmt.Sprintf("%s  %s  serial=%s  area=%s  status=%s",
			item.ID, item.Name, item.Serial, areas[item.AreaID], statuses[item.StatusID]))
	}
	return nil
}

// Gateways lists gateways, optionally narrowed to one area.
func (a *App) Gateways(ctx context.Context) error {
	areaID, err := getSimpleText(a.reader, "Area id (empty for all)", os.Stdout)
	if err != nil {
		return err
	}

	gateways, err := a.inventory.ListGateways(ctx, areaID)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	if len(gateways) == 0 {
		printlnFn("No gateways.")
		return nil
	}

	for _, item := range gateways {
		printlnFn(fmt.Sprintf("%s  %s  serial=%s  area=%s", item.ID, item.Name, item.Serial, item.AreaID))
	}
	return nil
}

// Points lists measurement points, optionally narrowed to one asset.
func (a *App) Points(ctx context.Context) error {
	assetID, err := getSimpleText(a.reader, "Asset id (empty for all)", os.Stdout)
	if err != nil {
		return err
	}

	points, err := a.inventory.ListPoints(ctx, assetID)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	if len(points) == 0 {
		printlnFn("No points.")
		return nil
	}

	for _, item := range points {
		printlnFn(fmt.Sprintf("%s  %s  unit=%s  asset=%s  gateway=%s",
			item.ID, item.Name, item.Unit, item.AssetID, item.GatewayID))
	}
	return nil
}

// Show displays a single entity with the photos attached to it, prompting
// the user for the entity kind and id.
func (a *App) Show(ctx context.Context) error {
	kind, err := getSimpleText(a.reader, "Entity kind (asset, gateway or point)", os.Stdout)
	if err != nil {
		return err
	}
	id, err := getSimpleText(a.reader, "Entity id", os.Stdout)
	if err != nil {
		return err
	}

	switch kind {
	case common.ParentKindAsset:
		item, err := a.inventory.GetAsset(ctx, id)
		if err != nil {
			log.Printf("error: %v", err)
			return err
		}
		log.Printf("Asset: %s", item.Name)
		log.Printf("Serial: %s", item.Serial)
		log.Printf("Area: %s", item.AreaID)
		log.Printf("Status: %s", item.StatusID)

	case common.ParentKindGateway:
		item, err := a.inventory.GetGateway(ctx, id)
		if err != nil {
			log.Printf("error: %v", err)
			return err
		}
		log.Printf("Gateway: %s", item.Name)
		log.Printf("Serial: %s", item.Serial)
		log.Printf("Area: %s", item.AreaID)

	case common.ParentKindPoint:
		item, err := a.inventory.GetPoint(ctx, id)
		if err != nil {
			log.Printf("error: %v", err)
			return err
		}
		log.Printf("Point: %s", item.Name)
		log.Printf("Unit: %s", item.Unit)
		log.Printf("Asset: %s", item.AssetID)
		log.Printf("Gateway: %s", item.GatewayID)

	default:
		log.Printf("Unknown entity kind: %s", kind)
		return fmt.Errorf("unknown entity kind: %s", kind)
	}

	photos, err := a.imageService.ListByParent(ctx, kind, id)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	now := time.Now()
	for _, img := range photos {
		marker := ""
		if !img.Synced {
			marker = "  (not synced)"
		}
		log.Printf("Photo: %s  %s  %s%s", img.Filename, formatBytes(img.Size), formatAge(now, img.CreatedAt), marker)
	}
	return nil
}

// resolveSiteID finds the area a parent entity belongs to. Points carry no
// area of their own, so the lookup goes through the owning asset.
func (a *App) resolveSiteID(ctx context.Context, kind, id string) (string, error) {
	switch kind {
	case common.ParentKindAsset:
		item, err := a.inventory.GetAsset(ctx, id)
		if err != nil {
			return "", err
		}
		return item.AreaID, nil

	case common.ParentKindGateway:
		item, err := a.inventory.GetGateway(ctx, id)
		if err != nil {
			return "", err
		}
		return item.AreaID, nil

	case common.ParentKindPoint:
		item, err := a.inventory.GetPoint(ctx, id)
		if err != nil {
			return "", err
		}
		owner, err := a.inventory.GetAsset(ctx, item.AssetID)
		if err != nil {
			return "", err
		}
		return owner.AreaID, nil
	}
	return "", fmt.Errorf("unknown parent kind: %s", kind)
}
