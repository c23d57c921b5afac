package tray

import (
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"
)

const sniInterface = "org.kde.StatusNotifierItem"

// Pixmap is the (width, height, pixels) struct the SNI spec uses for icon
// data. Always empty here; bars resolve the icon by name instead.
type Pixmap struct {
	Width  int32
	Height int32
	Data   []byte
}

// ToolTip is the (icon name, icon data, title, description) struct behind
// the SNI ToolTip property. Waybar shows the title part.
type ToolTip struct {
	IconName    string
	Pixmaps     []Pixmap
	Title       string
	Description string
}

// statusNotifierItem handles the SNI method calls.
type statusNotifierItem struct {
	tray *Tray
}

// Activate is the primary click: restore the window.
func (i *statusNotifierItem) Activate(x, y int32) *dbus.Error {
	i.tray.log.Debug("Tray Activate received", "x", x, "y", y)
	i.tray.emit(ActionRestore)
	return nil
}

// SecondaryActivate is the middle click: close the window.
func (i *statusNotifierItem) SecondaryActivate(x, y int32) *dbus.Error {
	i.tray.log.Debug("Tray SecondaryActivate received", "x", x, "y", y)
	i.tray.emit(ActionClose)
	return nil
}

// ContextMenu is handled by the bar through the Menu property.
func (i *statusNotifierItem) ContextMenu(x, y int32) *dbus.Error {
	return nil
}

func (i *statusNotifierItem) Scroll(delta int32, orientation string) *dbus.Error {
	return nil
}

func (t *Tray) exportItem() error {
	item := &statusNotifierItem{tray: t}
	if err := t.conn.Export(item, itemPath, sniInterface); err != nil {
		return fmt.Errorf("failed to export StatusNotifierItem: %w", err)
	}

	propMap := prop.Map{
		sniInterface: {
			"Category":   constProp("ApplicationStatus"),
			"Id":         constProp(t.window.Class),
			"Title":      constProp(t.window.Title),
			"Status":     constProp("Active"),
			"IconName":   constProp(t.window.Class),
			"ItemIsMenu": constProp(false),
			"Menu":       constProp(dbus.ObjectPath(menuPath)),
			"ToolTip": constProp(ToolTip{
				Title: t.window.Title,
			}),
		},
	}
	if _, err := prop.Export(t.conn, itemPath, propMap); err != nil {
		return fmt.Errorf("failed to export item properties: %w", err)
	}

	if err := t.conn.Export(introspect.Introspectable(itemIntrospectXML), itemPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export item introspection: %w", err)
	}
	return nil
}

// constProp wraps a read-only property value.
func constProp(value interface{}) *prop.Prop {
	return &prop.Prop{
		Value:    value,
		Writable: false,
		Emit:     prop.EmitTrue,
	}
}

var itemIntrospectXML = `<node>
	<interface name="org.kde.StatusNotifierItem">
		<method name="Activate">
			<arg name="x" type="i" direction="in"/>
			<arg name="y" type="i" direction="in"/>
		</method>
		<method name="SecondaryActivate">
			<arg name="x" type="i" direction="in"/>
			<arg name="y" type="i" direction="in"/>
		</method>
		<method name="ContextMenu">
			<arg name="x" type="i" direction="in"/>
			<arg name="y" type="i" direction="in"/>
		</method>
		<method name="Scroll">
			<arg name="delta" type="i" direction="in"/>
			<arg name="orientation" type="s" direction="in"/>
		</method>
		<property name="Category" type="s" access="read"/>
		<property name="Id" type="s" access="read"/>
		<property name="Title" type="s" access="read"/>
		<property name="Status" type="s" access="read"/>
		<property name="IconName" type="s" access="read"/>
		<property name="ItemIsMenu" type="b" access="read"/>
		<property name="Menu" type="o" access="read"/>
		<property name="ToolTip" type="(sa(iiay)ss)" access="read"/>
	</interface>` +
	introspect.IntrospectDataString +
	prop.IntrospectDataString +
	`</node>`
